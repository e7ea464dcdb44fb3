package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MADORI_ENV", "MADORI_LOG_LEVEL", "MADORI_LOG_FILE",
		"MADORI_WORLD", "MADORI_SEED", "MADORI_TIME_SCALE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
	assert.Empty(t, cfg.World)
	assert.Zero(t, cfg.Seed)
	assert.Zero(t, cfg.TimeScale)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MADORI_ENV", "production")
	t.Setenv("MADORI_LOG_LEVEL", "DEBUG")
	t.Setenv("MADORI_LOG_FILE", "/tmp/madori.log")
	t.Setenv("MADORI_WORLD", "worlds/house")
	t.Setenv("MADORI_SEED", "42")
	t.Setenv("MADORI_TIME_SCALE", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/tmp/madori.log", cfg.LogFile)
	assert.Equal(t, "worlds/house", cfg.World)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.InDelta(t, 0.5, cfg.TimeScale, 1e-9)
}

func TestLoad_InvalidSeed(t *testing.T) {
	clearEnv(t)
	t.Setenv("MADORI_SEED", "abc")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_NegativeTimeScale(t *testing.T) {
	clearEnv(t)
	t.Setenv("MADORI_TIME_SCALE", "-2")

	_, err := Load()
	require.ErrorContains(t, err, "MADORI_TIME_SCALE")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}
