package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the report tool. Only ambient
// concerns live here. Report content, input file name and week number
// are fixed in the program itself.
type Config struct {
	App     AppConfig
	Logging LoggingConfig
}

// AppConfig identifies the running application
type AppConfig struct {
	Name        string
	Environment string
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level string
}

// LoadConfig reads configuration from the environment, with an
// optional .env file, and validates it
func LoadConfig() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "weekreport"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the loaded configuration is usable
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q: must be one of debug, info, warn, error", c.Logging.Level)
	}

	if c.App.Name == "" {
		return fmt.Errorf("APP_NAME must not be empty")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
