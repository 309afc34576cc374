// Package logger provides structured logging for punchclock.
//
// Every component receives a Logger at construction time instead of
// reaching for a package-level logger. Output goes to stderr by default
// so that command output on stdout stays clean for piping.
//
// Example usage:
//
//	log := logger.New(logger.Config{
//	    Level:  "info",
//	    Output: "stderr",
//	    Format: "text",
//	})
//	store := log.Component("store")
//	store.Info("session appended", "count", 3)
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides leveled, structured logging with key-value fields.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an informational message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a logger that adds the given fields to every record.
	With(keysAndValues ...any) Logger

	// Component returns a logger tagged with component=name.
	Component(name string) Logger
}

// Config contains logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string

	// Output is the destination (stdout, stderr, or a file path).
	Output string

	// Format is the record format (text, json).
	Format string
}

type slogLogger struct {
	slogger *slog.Logger
}

// New creates a logger from cfg.
//
// An output file that cannot be opened falls back to stderr; logging
// must never be the reason a clock-out is lost.
func New(cfg Config) Logger {
	w, err := openOutput(cfg.Output)
	if err != nil {
		w = os.Stderr
	}
	return NewWithWriter(cfg, w)
}

// NewWithWriter creates a logger that writes to w, ignoring cfg.Output.
func NewWithWriter(cfg Config, w io.Writer) Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &slogLogger{slogger: slog.New(handler)}
}

func (l *slogLogger) Debug(msg string, keysAndValues ...any) {
	l.slogger.Debug(msg, keysAndValues...)
}

func (l *slogLogger) Info(msg string, keysAndValues ...any) {
	l.slogger.Info(msg, keysAndValues...)
}

func (l *slogLogger) Warn(msg string, keysAndValues ...any) {
	l.slogger.Warn(msg, keysAndValues...)
}

func (l *slogLogger) Error(msg string, keysAndValues ...any) {
	l.slogger.Error(msg, keysAndValues...)
}

func (l *slogLogger) With(keysAndValues ...any) Logger {
	return &slogLogger{slogger: l.slogger.With(keysAndValues...)}
}

func (l *slogLogger) Component(name string) Logger {
	return l.With("component", name)
}

// ParseLevel converts a level name to a slog.Level.
// Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openOutput resolves the output destination.
func openOutput(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	// #nosec G304: path comes from the user's own config file
	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", output, err)
	}
	return f, nil
}

// Default returns an info-level text logger on stderr.
func Default() Logger {
	return New(Config{Level: "info", Output: "stderr", Format: "text"})
}

// Noop returns a logger that discards everything.
func Noop() Logger {
	return NewWithWriter(Config{Level: "error"}, io.Discard)
}
