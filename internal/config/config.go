package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string

	AIProvider      string
	AnthropicAPIKey string
	ModelName       string

	CacheTTL        time.Duration
	MaxContextAge   time.Duration
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	cacheTTL, err := getDuration("CACHE_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	maxContextAge, err := getDuration("MAX_CONTEXT_AGE", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cleanupInterval, err := getDuration("CLEANUP_INTERVAL", 6*time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		AIProvider:      getEnv("AI_PROVIDER", "anthropic"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		ModelName:       getEnv("MODEL_NAME", "claude-3-sonnet-20240229"),
		CacheTTL:        cacheTTL,
		MaxContextAge:   maxContextAge,
		CleanupInterval: cleanupInterval,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
