// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds client configuration values loaded from file or environment variables.
type Config struct {
	APIBaseURL         string  `mapstructure:"API_BASE_URL"`
	HTTPTimeoutSeconds int     `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	StorageDriver      string  `mapstructure:"STORAGE_DRIVER"`
	RedisURL           string  `mapstructure:"REDIS_URL"`
	SQLitePath         string  `mapstructure:"SQLITE_PATH"`
	LogLevel           string  `mapstructure:"LOG_LEVEL"`
	Env                string  `mapstructure:"APP_ENV"`
	StubPort           string  `mapstructure:"STUB_PORT"`
	JWTSecret          string  `mapstructure:"JWT_SECRET"`
	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TraceExporter      string  `mapstructure:"TRACE_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TraceSamplerRatio  float64 `mapstructure:"TRACE_SAMPLER_RATIO"`
}

// LoadConfig loads configuration from .env, config files, and environment variables.
func LoadConfig() (*Config, error) {
	// .env is optional; absence is not an error
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config
	// We intentionally ignore this error as the config file may not exist yet
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	// Set default values for development
	viper.SetDefault("API_BASE_URL", "http://localhost:8375/api/v1")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 10)
	viper.SetDefault("STORAGE_DRIVER", "memory")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("SQLITE_PATH", "firstlog.db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("STUB_PORT", "8375")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACE_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACE_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and consistent.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return errors.New("HTTP_TIMEOUT_SECONDS must be positive")
	}

	switch c.StorageDriver {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (expected memory, redis, or sqlite)", c.StorageDriver)
	}
	if c.StorageDriver == "redis" && c.RedisURL == "" {
		return errors.New("REDIS_URL is required when STORAGE_DRIVER is redis")
	}
	if c.StorageDriver == "sqlite" && c.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required when STORAGE_DRIVER is sqlite")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction && c.JWTSecret == "your-secret-key-change-in-production" {
		return errors.New("JWT_SECRET must be changed from the default value in production")
	}

	return nil
}

// HTTPTimeout returns the request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
