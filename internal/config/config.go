package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the service settings, read from the environment.
type Config struct {
	HTTP struct {
		Addr    string
		GinMode string
	}

	DataDir string
	DBPath  string

	Sync struct {
		Enabled  bool
		Schedule string // cron spec
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration. Call godotenv.Load first to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8888")
	cfg.HTTP.GinMode = getEnv("GIN_MODE", "release")

	cfg.DataDir = getEnv("DATA_DIR", "./data")
	cfg.DBPath = getEnv("DB_PATH", filepath.Join(cfg.DataDir, "podsync.db"))

	enabled, err := getEnvBool("SYNC_ENABLED", true)
	if err != nil {
		return nil, err
	}
	cfg.Sync.Enabled = enabled
	cfg.Sync.Schedule = getEnv("SYNC_SCHEDULE", "@hourly")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}
