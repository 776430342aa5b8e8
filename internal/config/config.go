package config

import (
	"os"
	"strconv"

	"gridlens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds upload and inference settings
type DataConfig struct {
	MaxUploadBytes int64
	// TypeSampleRows caps how many rows the type inference samples.
	TypeSampleRows int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Data: DataConfig{
			MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 32)) << 20,
			TypeSampleRows: getEnvIntOrDefault("TYPE_SAMPLE_ROWS", 500),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Data.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Data.TypeSampleRows <= 0 {
		return errors.ConfigInvalid("TYPE_SAMPLE_ROWS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
