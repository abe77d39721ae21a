package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the environment defaults of the planning CLI. Command-line
// flags override every value.
type Config struct {
	LogLevel     string
	LogFormat    string
	PreviewLimit int
	OutputFormat string
	ScenarioDir  string
}

// Load reads PREPPLAN_* variables, falling back to defaults
func Load() *Config {
	previewLimit, err := strconv.Atoi(getEnv("PREPPLAN_PREVIEW_LIMIT", "3"))
	if err != nil {
		previewLimit = 3
	}

	return &Config{
		LogLevel:     strings.ToLower(getEnv("PREPPLAN_LOG_LEVEL", "warn")),
		LogFormat:    strings.ToLower(getEnv("PREPPLAN_LOG_FORMAT", "text")),
		PreviewLimit: previewLimit,
		OutputFormat: strings.ToLower(getEnv("PREPPLAN_OUTPUT_FORMAT", "text")),
		ScenarioDir:  getEnv("PREPPLAN_SCENARIO_DIR", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
