package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	Port     string
	LogLevel string // debug, info, warn, error

	// Server-side API keys, used when a request carries no key headers.
	GeminiKey    string
	GroqKey      string
	AnthropicKey string

	RequestTimeout time.Duration
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() *Config {
	godotenv.Load() // Load .env file if present

	return &Config{
		Port:           getEnvOrDefault("HORIZON_PORT", "8080"),
		LogLevel:       getEnvOrDefault("HORIZON_LOG_LEVEL", "info"),
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		GroqKey:        os.Getenv("GROQ_API_KEY"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		RequestTimeout: getEnvDurationOrDefault("HORIZON_TIMEOUT", 2*time.Minute),
	}
}

// SlogLevel maps the configured log level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
