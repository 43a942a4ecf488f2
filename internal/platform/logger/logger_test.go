package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/scribehq/scribe-api/internal/config"
	"github.com/scribehq/scribe-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupReturnsLogger(t *testing.T) {
	log := logger.Setup(config.ServerConfig{LogLevel: "debug"})
	require.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))

	log = logger.Setup(config.ServerConfig{LogLevel: "error"})
	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	log := logger.Setup(config.ServerConfig{LogLevel: "verbose"})
	require.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := logger.WithLogger(context.Background(), custom)
	assert.Same(t, custom, logger.FromContext(ctx))

	// Without a logger in context the default is returned.
	assert.NotNil(t, logger.FromContext(context.Background()))
}

func TestFromContextOrDefault(t *testing.T) {
	var buf bytes.Buffer
	def := slog.New(slog.NewTextHandler(&buf, nil))

	got := logger.FromContextOrDefault(context.Background(), def)
	assert.Same(t, def, got)

	custom := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := logger.WithLogger(context.Background(), custom)
	assert.Same(t, custom, logger.FromContextOrDefault(ctx, def))
}
