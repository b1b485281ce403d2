package domain

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"gorm.io/gorm"
)

// Place is the argument object of a recommendPlace tool call.
type Place struct {
	Location string `json:"location" validate:"required" jsonschema_description:"Give a specific place, including country name."`
	Caption  string `json:"caption" validate:"required" jsonschema_description:"Give the place name and the fascinating reason you selected this particular place. Keep the caption to one or two sentences maximum"`
}

// Preset is a canned prompt offered to the user.
type Preset struct {
	Label  string `mapstructure:"label" json:"label" yaml:"label" validate:"required" jsonschema:"description=Button label shown for the preset"`
	Prompt string `mapstructure:"prompt" json:"prompt" yaml:"prompt" validate:"required" jsonschema:"description=Prompt sent when the preset is chosen"`
}

// Geocoded is the result of resolving a free-form location.
type Geocoded struct {
	Point       orb.Point
	DisplayName string
}

// Lat returns the latitude of the point.
func (g Geocoded) Lat() float64 { return g.Point.Lat() }

// Lon returns the longitude of the point.
func (g Geocoded) Lon() float64 { return g.Point.Lon() }

// Recommendation is a place after it has been rendered.
type Recommendation struct {
	Place
	Found       bool
	Point       orb.Point
	DisplayName string
	TimeZone    string
}

// MapURL links to the recommendation on openstreetmap.org. It is empty when
// the place could not be located.
func (r Recommendation) MapURL(zoom int) string {
	if !r.Found {
		return ""
	}
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f#map=%d/%.5f/%.5f",
		r.Point.Lat(), r.Point.Lon(), zoom, r.Point.Lat(), r.Point.Lon())
}

// CachedPlace is a persisted geocode result.
type CachedPlace struct {
	Query       string `gorm:"uniqueIndex;not null"`
	DisplayName string
	Lat         float64
	Lon         float64
	ResolvedAt  time.Time
	gorm.Model
}

// Geocoded converts the stored row back into a lookup result.
func (c CachedPlace) Geocoded() Geocoded {
	return Geocoded{Point: orb.Point{c.Lon, c.Lat}, DisplayName: c.DisplayName}
}
