// Package log wraps log/slog with component-scoped loggers so every line
// carries the subsystem it came from.
package log

import (
	"log/slog"
	"os"
)

// Standard component names.
const (
	ComponentAPI       = "api"
	ComponentStorage   = "storage"
	ComponentGenerator = "generator"
	ComponentNotifier  = "notifier"
	ComponentAMQP      = "amqp"
)

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Component string
}

// New creates a component-scoped slog logger writing text to stdout.
func New(cfg Config) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level,
	})
	logger := slog.New(handler)
	if cfg.Component != "" {
		logger = logger.With("component", cfg.Component)
	}
	return logger
}

// SetDefault installs the logger as the process default so package-level
// slog calls inherit it.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
