package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Port)
	assert.Equal(t, time.Second, cfg.ChatReplyDelay)
	assert.True(t, cfg.Seed)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ZIGO_PORT", "9000")
	t.Setenv("ZIGO_CHAT_REPLY_DELAY", "250ms")
	t.Setenv("ZIGO_SEED", "false")
	t.Setenv("ZIGO_LOG_LEVEL", "debug")
	t.Setenv("ZIGO_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.ChatReplyDelay)
	assert.False(t, cfg.Seed)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("ZIGO_CHAT_REPLY_DELAY", "soon")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})

	t.Run("negative delay", func(t *testing.T) {
		t.Setenv("ZIGO_CHAT_REPLY_DELAY", "-1s")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("log level", func(t *testing.T) {
		t.Setenv("ZIGO_LOG_LEVEL", "chatty")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: "warn"}.loggerTo(&buf)

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Str("component", "test").Msg("shown")
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Contains(t, buf.String(), `"component":"test"`)
}
