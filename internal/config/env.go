package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envVarConfig defines an environment variable mapping
type envVarConfig struct {
	key      string // Key in the config
	envVars  []string
	isSecret bool // Whether to redact when printing
}

// Environment variables bound on top of the MAPSXPLR_ prefixed ones. The
// first variable that is set wins.
var envVars = []envVarConfig{
	{key: "provider.apikey", envVars: []string{"MAPSXPLR_API_KEY", "DEEPSEEK_API_KEY", "OPENAI_API_KEY"}, isSecret: true},
	{key: "provider.baseurl", envVars: []string{"MAPSXPLR_BASE_URL"}},
	{key: "provider.model", envVars: []string{"MAPSXPLR_MODEL"}},
}

// loadEnv loads .env from the working directory, falling back to
// ~/.mapsxplr.env. Variables already set in the environment are kept.
func loadEnv() {
	if err := godotenv.Load(); err != nil {
		home, err := os.UserHomeDir()
		if err == nil {
			_ = godotenv.Load(filepath.Join(home, ".mapsxplr.env"))
		}
	}
}
