package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv             string
	ServerPort         string
	DatabaseURL        string
	RedisURL           string
	CacheTTL           time.Duration
	CacheMarkerTTL     time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	BcryptCost         int
	LogLevel           string
	MigrateOnStart     bool
	CORSAllowedOrigins []string
}

func LoadConfig() (*Config, error) {
	cacheTTL, err := getDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	cacheMarkerTTL, err := getDuration("CACHE_INVALIDATION_TTL", "30s")
	if err != nil {
		return nil, err
	}
	requestTimeout, err := getDuration("REQUEST_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	bcryptCost, err := strconv.Atoi(getEnv("BCRYPT_COST", "12"))
	if err != nil {
		return nil, errors.New("invalid BCRYPT_COST format")
	}
	migrateOnStart, err := strconv.ParseBool(getEnv("MIGRATE_ON_START", "false"))
	if err != nil {
		return nil, errors.New("invalid MIGRATE_ON_START format")
	}

	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		CacheTTL:           cacheTTL,
		CacheMarkerTTL:     cacheMarkerTTL,
		RequestTimeout:     requestTimeout,
		ShutdownTimeout:    shutdownTimeout,
		BcryptCost:         bcryptCost,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MigrateOnStart:     migrateOnStart,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("REQUEST_TIMEOUT must be positive")
	}
	// A marker that expires while a request is still running lets that
	// request fill the cache with a row it read before the mutation.
	if cfg.CacheMarkerTTL <= cfg.RequestTimeout {
		return nil, errors.New("CACHE_INVALIDATION_TTL must be longer than REQUEST_TIMEOUT")
	}

	return cfg, nil
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s format", key)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
