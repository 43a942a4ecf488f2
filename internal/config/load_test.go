package config_test

import (
	"testing"

	"github.com/scribehq/scribe-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A secret long enough to satisfy the min=32 rule.
const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SCRIBE_DATABASE_URL", "postgres://localhost:5432/scribe_test")
	t.Setenv("SCRIBE_AUTH_JWT_SECRET", testSecret)
	t.Setenv("SCRIBE_SERVER_PORT", "9090")
	t.Setenv("SCRIBE_SERVER_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/scribe_test", cfg.Database.URL)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCRIBE_DATABASE_URL", "postgres://localhost:5432/scribe_test")
	t.Setenv("SCRIBE_AUTH_JWT_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 10, cfg.Server.LoginRateLimit)
	assert.Equal(t, 60, cfg.Server.LoginRateWindowSeconds)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 2, cfg.Task.WorkerCount)
	assert.Equal(t, 100, cfg.Task.QueueSize)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("SCRIBE_DATABASE_URL", "")
	t.Setenv("SCRIBE_AUTH_JWT_SECRET", testSecret)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadShortJWTSecret(t *testing.T) {
	t.Setenv("SCRIBE_DATABASE_URL", "postgres://localhost:5432/scribe_test")
	t.Setenv("SCRIBE_AUTH_JWT_SECRET", "too-short")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
