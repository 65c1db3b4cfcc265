// Package log wraps slog with a component attribute.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with a component name
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
}

// DefaultConfig logs warnings and errors to stderr
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelWarn,
		Component: "ptt",
		Output:    os.Stderr,
	}
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: config.Level})

	base := slog.New(handler)

	return &Logger{
		Logger:    base.With("component", config.Component),
		base:      base,
		component: config.Component,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(Config{Level: slog.LevelError + 1, Component: "discard", Output: io.Discard})
}

// WithComponent returns a new logger with a specific component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.base.With("component", component),
		base:      l.base,
		component: component,
	}
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}

// ParseLevel maps a config level name to a slog level. Unknown names map to warn.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetDefault sets the default logger for the application
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}
