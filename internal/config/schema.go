package config

import (
	"time"

	"github.com/isaacphi/mapsxplr/internal/domain"
)

// Provider configures the chat-completion service.
type Provider struct {
	BaseURL     string        `mapstructure:"baseUrl" json:"baseUrl" validate:"required,url" jsonschema:"description=Base URL of the OpenAI compatible API,default=https://api.deepseek.com/v1"`
	Model       string        `mapstructure:"model" json:"model" validate:"required" jsonschema:"description=Model name sent with each request,default=deepseek-chat"`
	APIKey      string        `mapstructure:"apiKey" json:"apiKey,omitempty" jsonschema:"description=API key. Prefer the DEEPSEEK_API_KEY or OPENAI_API_KEY environment variables"`
	Temperature *float64      `mapstructure:"temperature" json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2" jsonschema:"description=Sampling temperature. Omitted from requests when unset"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout" validate:"gte=0" jsonschema:"type=string,description=Timeout for a whole request including the streamed body"`
}

// Geocoder configures the place search service.
type Geocoder struct {
	BaseURL   string        `mapstructure:"baseUrl" json:"baseUrl" validate:"required,url" jsonschema:"description=Base URL of a Nominatim compatible search API"`
	UserAgent string        `mapstructure:"userAgent" json:"userAgent" validate:"required" jsonschema:"description=User-Agent sent with every search request"`
	RateLimit float64       `mapstructure:"rateLimit" json:"rateLimit" validate:"gt=0" jsonschema:"description=Maximum search requests per second"`
	Timeout   time.Duration `mapstructure:"timeout" json:"timeout" validate:"gte=0" jsonschema:"type=string,description=Timeout of a single search request"`
	CacheTTL  time.Duration `mapstructure:"cacheTtl" json:"cacheTtl" validate:"gte=0" jsonschema:"type=string,description=How long results stay in the in-memory cache"`
}

// Map configures the map view.
type Map struct {
	CenterLat float64 `mapstructure:"centerLat" json:"centerLat" validate:"gte=-90,lte=90"`
	CenterLon float64 `mapstructure:"centerLon" json:"centerLon" validate:"gte=-180,lte=180"`
	Zoom      int     `mapstructure:"zoom" json:"zoom" validate:"gte=0,lte=19" jsonschema:"description=Zoom of the initial world view"`
	FocusZoom int     `mapstructure:"focusZoom" json:"focusZoom" validate:"gte=0,lte=19" jsonschema:"description=Zoom used when a place is shown"`
}

type Log struct {
	LogLevel string `mapstructure:"logLevel" json:"logLevel" validate:"omitempty,oneof=DEBUG INFO WARN ERROR" jsonschema:"enum=DEBUG,enum=INFO,enum=WARN,enum=ERROR"`
	LogFile  string `mapstructure:"logFile" json:"logFile,omitempty"`
}

type ConfigSchema struct {
	Provider      Provider        `mapstructure:"provider" json:"provider"`
	SystemMessage string          `mapstructure:"systemMessage" json:"systemMessage" validate:"required"`
	Presets       []domain.Preset `mapstructure:"presets" json:"presets" validate:"dive"`
	Geocoder      Geocoder        `mapstructure:"geocoder" json:"geocoder"`
	Map           Map             `mapstructure:"map" json:"map"`
	DBPath        string          `mapstructure:"dbPath" json:"dbPath" jsonschema:"description=Path of the sqlite geocode cache. Relative to the global config directory when not absolute"`
	Log           Log             `mapstructure:"log" json:"log"`
	KeyMap        KeyMap          `mapstructure:"keyMap" json:"keyMap"`

	// Internal fields for printing
	sources map[string][]configSource
}
