// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
// Tokens are issued by the external identity provider; this backend only
// verifies them and reads the user id and role claims.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq-based reminder scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// AnalyticsConfig provides settings for the analytics aggregator.
type AnalyticsConfig interface {
	// GetTrendZeroFill reports whether revenue trend series back-fill
	// missing days with zero buckets for contiguous-axis charting.
	GetTrendZeroFill() bool
	// GetGrowthPeriod is the comparison window for revenue growth
	// (current period vs the prior period of equal length).
	GetGrowthPeriod() time.Duration
}

// =============================================================================
// Config Implementation
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTAccessSecret string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	RedisURL         string
	AsynqQueueName   string
	AsynqConcurrency int

	TrendZeroFill bool
	GrowthPeriod  time.Duration

	PublicIntakeRatePerMin int
}

// Load reads configuration from the environment, with .env as a fallback
// for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		JWTAccessSecret:        os.Getenv("JWT_ACCESS_SECRET"),
		CORSAllowAll:           getEnvBool("CORS_ALLOW_ALL", false),
		CORSOrigins:            getEnvList("CORS_ORIGINS"),
		CORSAllowCreds:         getEnvBool("CORS_ALLOW_CREDENTIALS", true),
		RedisURL:               os.Getenv("REDIS_URL"),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:       getEnvInt("ASYNQ_CONCURRENCY", 10),
		TrendZeroFill:          getEnvBool("ANALYTICS_TREND_ZERO_FILL", true),
		GrowthPeriod:           getEnvDuration("ANALYTICS_GROWTH_PERIOD", 30*24*time.Hour),
		PublicIntakeRatePerMin: getEnvInt("PUBLIC_INTAKE_RATE_PER_MIN", 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetEnv() string             { return c.Env }
func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }
func (c *Config) GetHTTPAddr() string        { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool      { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string   { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool    { return c.CORSAllowCreds }
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int   { return c.AsynqConcurrency }
func (c *Config) GetTrendZeroFill() bool     { return c.TrendZeroFill }
func (c *Config) GetGrowthPeriod() time.Duration {
	return c.GrowthPeriod
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
