// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings that are not part of the world definition.
type Config struct {
	Environment  string  `env:"MADORI_ENV"        envDefault:"development"`
	LogLevelName string  `env:"MADORI_LOG_LEVEL"  envDefault:"info"`
	LogFile      string  `env:"MADORI_LOG_FILE"`   // empty: stderr in plain mode, discarded in the TUI
	World        string  `env:"MADORI_WORLD"`      // world directory; empty loads the embedded house
	Seed         int64   `env:"MADORI_SEED"`       // minimap seed; 0 picks one at start-up
	TimeScale    float64 `env:"MADORI_TIME_SCALE"` // real seconds per narrative second; 0 settles instantly in plain mode

	LogLevel slog.Level // parsed from LogLevelName
}

// Load reads the MADORI_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TimeScale < 0 {
		return nil, fmt.Errorf("MADORI_TIME_SCALE must not be negative, got %v", cfg.TimeScale)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	return &cfg, nil
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
