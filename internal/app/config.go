package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/campus/pkg/httpx"
)

type Config struct {
	APIURL        string  // Base URL of the campus API (default: http://localhost:8080)
	InitData      string  // Optional: launch payload to authenticate with
	InitDataFile  string  // Optional: file holding the launch payload, read on every call
	WatchInitData bool    // Watch InitDataFile and cache its content instead of reading per call
	RateLimit     float64 // Outgoing API calls per second, 0 disables (default: 0)

	BotToken      string                // Token used to sign and check payloads in the mock server and `initdata` commands
	MockPort      int                   // Mock server port (default: 8080)
	MockRateLimit httpx.RateLimitConfig // Per-IP limit on the mock server, RATELIMIT_MOCK_* (default: off)
	MockSeed      bool                  // Load demo content into the mock server (default: true)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: text)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		APIURL:        getEnvOrDefault("CAMPUS_API_URL", "http://localhost:8080"),
		InitData:      os.Getenv("CAMPUS_INIT_DATA"),
		InitDataFile:  os.Getenv("CAMPUS_INIT_DATA_FILE"),
		WatchInitData: getEnvBoolOrDefault("CAMPUS_WATCH_INIT_DATA", false),
		RateLimit:     getEnvFloatOrDefault("CAMPUS_RATE_LIMIT", 0),

		BotToken:      os.Getenv("CAMPUS_BOT_TOKEN"),
		MockPort:      getEnvIntOrDefault("MOCK_PORT", 8080),
		MockRateLimit: httpx.ParseRateLimitFromEnv("MOCK", httpx.RateLimitConfig{}),
		MockSeed:      getEnvBoolOrDefault("MOCK_SEED", true),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "text"),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
		return f
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
