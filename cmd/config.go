package cmd

import (
	"os"
	"strconv"
)

// Config carries the process configuration. Values come from the environment,
// optionally loaded from a .env file; unset or unparsable values fall back to
// defaults, the simulator rejects out-of-range ones at construction.
type Config struct {
	HTTPPort      string
	SimIntervalMS int
	SimStepSize   float64
}

const defaultHTTPPort = "3000"

// NewConfigFromEnv reads the configuration from environment variables.
func NewConfigFromEnv() Config {
	return Config{
		HTTPPort:      envString("HTTP_PORT", defaultHTTPPort),
		SimIntervalMS: envInt("SIM_INTERVAL_MS", 0),
		SimStepSize:   envFloat("SIM_STEP_SIZE", 0),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
