// Package logger builds the structured logger used by the engine and the
// front ends.
package logger

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nathoo/madori/config"
)

// Setup configures the global slog logger based on environment.
// Records go to w: a log file, stderr, or io.Discard under the TUI.
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// NewSessionID returns a fresh identifier for one playthrough.
func NewSessionID() string {
	return uuid.NewString()
}

// WithSession adds the playthrough's session ID to logger context.
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	return logger.With("session_id", sessionID)
}

// WithError adds error to logger context.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
