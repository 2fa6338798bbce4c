// Package log provides structured logging for the animation engine.
// It wraps slog with the defaults used across the engine packages.
package log

import (
	"log/slog"
	"os"
	"sync"

	"github.com/davecgh/go-spew/spew"
)

var (
	logger *slog.Logger
	once   sync.Once

	spewConfig = &spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
		MaxDepth:                8,
	}
)

// Init initializes the global logger with the specified level.
// Valid levels: "debug", "info", "warn", "error"
func Init(level string) {
	once.Do(func() {
		opts := &slog.HandlerOptions{
			Level: ParseLevel(level),
		}

		// JSON in production, text everywhere else
		if os.Getenv("GO_ENV") == "production" {
			logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
		} else {
			logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
		}
	})
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLogger replaces the global logger and returns the previous one.
// Init has no effect afterwards.
func SetLogger(l *slog.Logger) *slog.Logger {
	prev := L()
	if l != nil {
		logger = l
	}
	return prev
}

// L returns the global logger instance.
func L() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}

// Dump logs a spew dump of v at debug level.
func Dump(msg string, v any) {
	L().Debug(msg, "dump", Sdump(v))
}

// Sdump returns the spew dump of v using the engine's dump settings.
func Sdump(v any) string {
	return spewConfig.Sdump(v)
}
