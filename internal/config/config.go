package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

/*
Config System Design:
This configuration system implements a hierarchical config with the following precedence
(highest to lowest priority):

1. Runtime overrides (command line flags)
2. Environment variables (MAPSXPLR_ prefixed, plus the provider key variables)
3. Local project config (.mapsxplr/*.mapsxplr.{yaml,json})
4. Global user config ($XDG_CONFIG_HOME/mapsxplr/*.mapsxplr.{yaml,json})
5. Default values (embedded defaults.mapsxplr.yaml)

The system supports:
- Multiple config files in each directory, merged alphabetically
- Automatic merging of lists (they combine, duplicates dropped)
- Deep merging of maps
- Override of scalar values
- Tracking of where each config value originated
- Schema validation of the final config

Example:
If you have these files:
~/.config/mapsxplr/presets.mapsxplr.yaml:  { presets: [{label: Deserts, prompt: ...}] }
./.mapsxplr/presets.mapsxplr.yaml:         { presets: [{label: Islands, prompt: ...}] }
The result will be the six default presets followed by Deserts and Islands.
*/

const appName = "mapsxplr"

//go:embed defaults.mapsxplr.yaml
var defaultConfig []byte

type configSource struct {
	value  interface{}
	source string
}

// Loader reads configuration from a global and a local directory.
type Loader struct {
	GlobalDir string
	LocalDir  string

	// SkipDotEnv disables loading of .env files.
	SkipDotEnv bool
}

// GlobalDir returns $XDG_CONFIG_HOME/mapsxplr, defaulting to ~/.config/mapsxplr.
func GlobalDir() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, appName), nil
}

// New loads the configuration from the default locations and applies overrides.
func New(overrides *RuntimeOverrides) (*ConfigSchema, error) {
	globalDir, err := GlobalDir()
	if err != nil {
		return nil, fmt.Errorf("could not locate config directory: %w", err)
	}
	l := Loader{GlobalDir: globalDir, LocalDir: "." + appName}
	return l.Load(overrides)
}

// Load reads, merges and validates the configuration.
func (l Loader) Load(overrides *RuntimeOverrides) (*ConfigSchema, error) {
	if !l.SkipDotEnv {
		loadEnv()
	}

	settings, err := readDefaults()
	if err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	sources := make(map[string][]configSource)
	for _, dir := range []string{l.GlobalDir, l.LocalDir} {
		if dir == "" {
			continue
		}
		files, err := findConfigFiles(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}

		for _, f := range files {
			fv := viper.New()
			fv.SetConfigFile(f)
			if err := fv.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", f, err)
			}
			fileSettings := fv.AllSettings()
			trackSources(sources, "", fileSettings, f)
			settings = mergeMapRecursive(settings, fileSettings)
		}
	}

	v := viper.New()
	if err := v.MergeConfigMap(settings); err != nil {
		return nil, fmt.Errorf("error merging config: %w", err)
	}

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, env := range envVars {
		if err := v.BindEnv(append([]string{env.key}, env.envVars...)...); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env.key, err)
		}
		for _, name := range env.envVars {
			if val := os.Getenv(name); val != "" {
				displayVal := val
				if env.isSecret {
					displayVal = "[REDACTED]"
				}
				sources[env.key] = append(sources[env.key], configSource{
					value:  displayVal,
					source: fmt.Sprintf("%s environment variable", name),
				})
				break
			}
		}
	}

	var cfg ConfigSchema
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrides.apply(&cfg, sources)
	cfg.sources = sources

	if cfg.DBPath != "" && !filepath.IsAbs(cfg.DBPath) && l.GlobalDir != "" {
		cfg.DBPath = filepath.Join(l.GlobalDir, cfg.DBPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readDefaults() (map[string]interface{}, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(string(defaultConfig))); err != nil {
		return nil, fmt.Errorf("could not read defaults: %w", err)
	}
	return v.AllSettings(), nil
}

// findConfigFiles returns all *.mapsxplr.{yaml,json} files in a directory
func findConfigFiles(dir string) ([]string, error) {
	var files []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, "."+appName+".yaml") ||
			strings.HasSuffix(name, "."+appName+".json") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

func mergeMapRecursive(existing, new map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for k, v := range existing {
		result[k] = v
	}

	for k, v := range new {
		if existing[k] == nil {
			result[k] = v
			continue
		}

		switch existingVal := existing[k].(type) {
		case map[string]interface{}:
			if newVal, ok := v.(map[string]interface{}); ok {
				result[k] = mergeMapRecursive(existingVal, newVal)
			} else {
				result[k] = v
			}
		case []interface{}:
			if newVal, ok := v.([]interface{}); ok {
				result[k] = mergeSlices(existingVal, newVal)
			} else {
				result[k] = v
			}
		default:
			result[k] = v
		}
	}

	return result
}

// mergeSlices appends b to a, dropping values already present. Elements may
// be maps, so they are compared by their printed form.
func mergeSlices(a, b []interface{}) []interface{} {
	seen := make(map[string]bool)
	combined := make([]interface{}, 0, len(a)+len(b))
	for _, list := range [][]interface{}{a, b} {
		for _, v := range list {
			key := fmt.Sprintf("%v", v)
			if seen[key] {
				continue
			}
			seen[key] = true
			combined = append(combined, v)
		}
	}
	return combined
}

func trackSources(sources map[string][]configSource, prefix string, settings map[string]interface{}, filename string) {
	for key, value := range settings {
		fullKey := strings.ToLower(key)
		if prefix != "" {
			fullKey = prefix + "." + fullKey
		}
		if nested, ok := value.(map[string]interface{}); ok {
			trackSources(sources, fullKey, nested, filename)
			continue
		}
		sources[fullKey] = append(sources[fullKey], configSource{
			value:  value,
			source: filename,
		})
	}
}

// Validate validates the configuration against the schema
func (s *ConfigSchema) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}

	labels := make(map[string]bool)
	for _, p := range s.Presets {
		if labels[p.Label] {
			return fmt.Errorf("config validation error: duplicate preset label %q", p.Label)
		}
		labels[p.Label] = true
	}
	return nil
}

// HasAPIKey reports whether a provider key is configured.
func (s *ConfigSchema) HasAPIKey() bool {
	return strings.TrimSpace(s.Provider.APIKey) != ""
}
