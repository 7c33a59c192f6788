package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgarridoh/studykit-api/internal/config"
)

func TestSetup(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		log, err := Setup(config.ServerConfig{LogLevel: level})
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}

func TestSetup_InvalidLevelFallsBack(t *testing.T) {
	log, err := Setup(config.ServerConfig{LogLevel: "verbose"})
	require.NoError(t, err)
	assert.NotNil(t, log)

	// Falls back to info: debug suppressed, info enabled.
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	scoped := slog.Default().With("trace_id", "abc123")

	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx))
	assert.Same(t, scoped, FromContextOrDefault(ctx, nil))

	// Without a stored logger the fallbacks apply.
	bare := context.Background()
	assert.Same(t, slog.Default(), FromContext(bare))

	fallback := slog.Default().With("component", "test")
	assert.Same(t, fallback, FromContextOrDefault(bare, fallback))
}
