package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// Storage backend
	Storage StorageConfig

	// Optional catalog cache
	Redis RedisConfig

	// Webhook service
	Webhook WebhookConfig

	// Indicator engine
	Indicator IndicatorConfig
}

// StorageConfig holds bar storage configuration.
// Driver is "sqlite" (default) or "postgres".
type StorageConfig struct {
	Driver string

	// SQLite
	SQLitePath string

	// PostgreSQL
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds the optional Redis catalog-cache configuration.
// The cache is disabled when Enabled is false.
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	StatusTTL    time.Duration
}

// WebhookConfig holds the webhook receiver configuration
type WebhookConfig struct {
	Port            int
	JWTSecret       string // empty disables auth
	RateLimitRPS    int
	ShutdownTimeout time.Duration
}

// IndicatorConfig holds indicator engine configuration
type IndicatorConfig struct {
	// Extra calendar days fetched before the reporting window so that
	// lagging formulas (SMA-200 and friends) stabilize before the first
	// reported day.
	WarmupDays int
}

// Load loads configuration from environment variables.
// It automatically loads a .env file if one exists in the working directory.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Storage: StorageConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			SQLitePath:      getEnv("TRADINGVIEW_DB_PATH", "./data/tradingview_market_data.db"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "tvstore"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			StatusTTL:    getEnvAsDuration("REDIS_STATUS_TTL", 5*time.Minute),
		},
		Webhook: WebhookConfig{
			Port:            getEnvAsInt("TRADINGVIEW_WEBHOOK_PORT", 8089),
			JWTSecret:       getEnv("WEBHOOK_JWT_SECRET", ""),
			RateLimitRPS:    getEnvAsInt("WEBHOOK_RATE_LIMIT_RPS", 100),
			ShutdownTimeout: getEnvAsDuration("WEBHOOK_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Indicator: IndicatorConfig{
			WarmupDays: getEnvAsInt("INDICATOR_WARMUP_DAYS", 200),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("TRADINGVIEW_DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.Storage.Host == "" {
			return fmt.Errorf("DB_HOST is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (expected sqlite or postgres)", c.Storage.Driver)
	}
	if c.Indicator.WarmupDays < 0 {
		return fmt.Errorf("INDICATOR_WARMUP_DAYS must be non-negative")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
