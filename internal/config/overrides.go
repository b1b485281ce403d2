package config

import "strings"

// RuntimeOverrides holds configuration values that can be overridden at runtime
// via CLI flags or other means
type RuntimeOverrides struct {
	LogLevel    *string
	LogFile     *string
	Model       *string
	Temperature *float64
}

func (o *RuntimeOverrides) apply(cfg *ConfigSchema, sources map[string][]configSource) {
	if o == nil {
		return
	}

	set := func(key string, value interface{}) {
		sources[key] = append(sources[key], configSource{value: value, source: "command line flag"})
	}

	if o.LogLevel != nil {
		cfg.Log.LogLevel = strings.ToUpper(*o.LogLevel)
		set("log.loglevel", cfg.Log.LogLevel)
	}
	if o.LogFile != nil {
		cfg.Log.LogFile = *o.LogFile
		set("log.logfile", *o.LogFile)
	}
	if o.Model != nil {
		cfg.Provider.Model = *o.Model
		set("provider.model", *o.Model)
	}
	if o.Temperature != nil {
		t := *o.Temperature
		cfg.Provider.Temperature = &t
		set("provider.temperature", t)
	}
}
