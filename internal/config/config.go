package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DotEnvFile is loaded into the process environment, if present, before reading configuration.
const DotEnvFile = ".env"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DataConfig points at the listing source files.
type DataConfig struct {
	Dir string
}

// DatabaseConfig holds PostgreSQL connection configuration for saved favorites.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
	Enabled  bool
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// MatchingConfig tunes the recommendation engine.
type MatchingConfig struct {
	Limit                int
	StrictLocationFilter bool
}

// RateLimitConfig holds per-client request limits. RPS of zero disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present; real
// environment variables always win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}

	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DATA_DIR", "./resources")
	v.SetDefault("DB_ENABLED", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "homematch")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("RECOMMEND_LIMIT", 3)
	v.SetDefault("STRICT_LOCATION_FILTER", false)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Data: DataConfig{
			Dir: v.GetString("DATA_DIR"),
		},
		Database: DatabaseConfig{
			Enabled:  v.GetBool("DB_ENABLED"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Matching: MatchingConfig{
			Limit:                v.GetInt("RECOMMEND_LIMIT"),
			StrictLocationFilter: v.GetBool("STRICT_LOCATION_FILTER"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}

	// Database settings only matter when favorites are backed by Postgres
	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Port == "" {
			return fmt.Errorf("DB_PORT is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USER is required")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when DB_ENABLED is true")
		}
		if c.Database.PoolMin < 0 {
			return fmt.Errorf("DB_POOL_MIN must be non-negative")
		}
		if c.Database.PoolMax < 1 {
			return fmt.Errorf("DB_POOL_MAX must be at least 1")
		}
		if c.Database.PoolMin > c.Database.PoolMax {
			return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
		}
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Matching.Limit < 1 {
		return fmt.Errorf("RECOMMEND_LIMIT must be at least 1")
	}

	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be non-negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
