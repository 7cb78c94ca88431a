// Package config loads the core's configuration from environment
// variables with sensible defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all tunables of the transaction intelligence core.
type Config struct {
	LogLevel string

	// Backend API
	APIBaseURL  string
	AccessToken string
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint  string
	TracingEnable bool

	// Classifier amount heuristics
	LargeFixedThreshold float64
	DailySmallThreshold float64
	RetailLow           float64
	RetailHigh          float64
	MemoSize            int

	// Recurring regeneration
	RegenCronSpec string
	RegenTimeout  time.Duration
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory seeds variables that are not
// already set; the real environment always wins.
func Load() *Config {
	_ = LoadDotEnv(".env")

	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:  getEnv("SPENDWISE_API_URL", "http://localhost:8080/api/v1"),
		AccessToken: getEnv("SPENDWISE_ACCESS_TOKEN", ""),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnable: getEnv("TRACING_ENABLE", "false") == "true",

		LargeFixedThreshold: getEnvFloat("CLASSIFY_LARGE_FIXED", 1000),
		DailySmallThreshold: getEnvFloat("CLASSIFY_DAILY_SMALL", 10),
		RetailLow:           getEnvFloat("CLASSIFY_RETAIL_LOW", 50),
		RetailHigh:          getEnvFloat("CLASSIFY_RETAIL_HIGH", 200),
		MemoSize:            getEnvInt("CLASSIFY_MEMO_SIZE", 100),

		RegenCronSpec: getEnv("REGEN_CRON", "0 6 * * *"),
		RegenTimeout:  getEnvDuration("REGEN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
