package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dlg1206/pydb/internal/infrastructure/config"
)

// Extra levels beyond the slog built-ins.
const (
	// LevelFatal is above error; Fatal logs at this level then exits.
	LevelFatal = slog.Level(12)

	// LevelSilent filters out every record, including fatal ones
	// (the process still exits on Fatal, it just says nothing first).
	LevelSilent = slog.Level(16)
)

// exitFunc is called by Fatal after logging. Replaced in tests.
var exitFunc = os.Exit

// Logger wraps slog.Logger with pydb-specific functionality.
//
// It provides structured logging with default fields, level-based filtering
// including a silent mode, and a Fatal level that terminates the process.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
}

// New creates a new Logger with the specified configuration.
//
// It configures:
//   - Output format (JSON for production, text for development)
//   - Log level filtering (silent, debug, info, warn, error)
//   - Default fields (service name, version)
//   - Output destination
//
// Parameters:
//   - cfg: Logging configuration
//   - version: Application version for default field
//
// Returns:
//   - *Logger: Configured logger ready for use
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	level := ParseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: renameCustomLevels,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "pydb"),
		slog.String("version", version),
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// renameCustomLevels maps the custom fatal level to a readable label.
// Without this, slog renders it as "ERROR+4".
func renameCustomLevels(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok && level >= LevelFatal {
			a.Value = slog.StringValue("FATAL")
		}
	}
	return a
}

// ParseLevel converts a string log level to slog.Level.
//
// Supported levels: silent, debug, info, warn, error.
// Defaults to info if unrecognised.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "silent":
		return LevelSilent
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

// Fatal logs the message at fatal level and terminates the process with
// exit code 1. Use only for unrecoverable conditions at startup.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Log(context.Background(), LevelFatal, msg, args...)
	exitFunc(1)
}

// With returns a new Logger with additional default attributes.
//
// Parameters:
//   - args: Key-value pairs to add as default attributes
//
// Returns:
//   - *Logger: New logger with added attributes
//
// Example:
//
//	dbLogger := logger.With("component", "store")
//	dbLogger.Info("connected") // Includes component=store
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// Default creates a default logger for use before configuration is loaded.
//
// This logger outputs to stdout in JSON format at info level.
// It should only be used during early startup before config is available.
//
// Returns:
//   - *Logger: Default logger
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}

// Discard creates a logger that drops every record. Useful as a nil-safe
// fallback when a component is constructed without a logger.
func Discard() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: LevelSilent,
		})),
	}
}
