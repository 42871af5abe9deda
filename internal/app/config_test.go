package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"CAMPUS_API_URL", "CAMPUS_INIT_DATA", "CAMPUS_INIT_DATA_FILE", "CAMPUS_WATCH_INIT_DATA",
		"CAMPUS_RATE_LIMIT", "CAMPUS_BOT_TOKEN", "MOCK_PORT", "MOCK_SEED", "ENV", "LOG_LEVEL",
		"LOG_FORMAT", "SHUTDOWN_GRACE_PERIOD", "RATELIMIT_MOCK_REQUESTS", "RATELIMIT_MOCK_WINDOW_SEC",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "http://localhost:8080", cfg.APIURL)
	require.Empty(t, cfg.InitData)
	require.False(t, cfg.WatchInitData)
	require.Zero(t, cfg.RateLimit)
	require.Equal(t, 8080, cfg.MockPort)
	require.True(t, cfg.MockSeed)
	require.False(t, cfg.MockRateLimit.Enabled())
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CAMPUS_API_URL", "https://api.example.edu")
	t.Setenv("CAMPUS_INIT_DATA", "query_id=1")
	t.Setenv("CAMPUS_INIT_DATA_FILE", "/run/campus/init-data")
	t.Setenv("CAMPUS_WATCH_INIT_DATA", "true")
	t.Setenv("CAMPUS_RATE_LIMIT", "2.5")
	t.Setenv("MOCK_PORT", "9090")
	t.Setenv("MOCK_SEED", "false")
	t.Setenv("RATELIMIT_MOCK_REQUESTS", "10")
	t.Setenv("RATELIMIT_MOCK_WINDOW_SEC", "1")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "3")

	cfg := LoadConfig()
	require.Equal(t, "https://api.example.edu", cfg.APIURL)
	require.Equal(t, "query_id=1", cfg.InitData)
	require.Equal(t, "/run/campus/init-data", cfg.InitDataFile)
	require.True(t, cfg.WatchInitData)
	require.InDelta(t, 2.5, cfg.RateLimit, 0.0001)
	require.Equal(t, 9090, cfg.MockPort)
	require.False(t, cfg.MockSeed)
	require.True(t, cfg.MockRateLimit.Enabled())
	require.Equal(t, 3*time.Second, cfg.ShutdownGracePeriod)
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("X_INT", "twelve")
	t.Setenv("X_FLOAT", "-1")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	require.Equal(t, 7, getEnvIntOrDefault("X_INT", 7))
	require.InDelta(t, 1.5, getEnvFloatOrDefault("X_FLOAT", 1.5), 0.0001)
	require.True(t, getEnvBoolOrDefault("X_BOOL", true))
	require.Equal(t, time.Minute, getEnvDurationOrDefault("X_DUR", time.Minute))

	t.Setenv("X_DUR", "250ms")
	require.Equal(t, 250*time.Millisecond, getEnvDurationOrDefault("X_DUR", time.Minute))
}
