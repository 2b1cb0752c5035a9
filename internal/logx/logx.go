// Package logx configures the process-wide slog logger and adds a CRITICAL level
// for failures that need an operator to step in.
package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelCritical sits above slog.LevelError.
const LevelCritical = slog.Level(12)

// Init installs a JSON or text handler writing to stdout as the default logger.
func Init(level, format string) *slog.Logger {
	logger := New(os.Stdout, level, format)
	slog.SetDefault(logger)
	return logger
}

// New builds a logger without touching the process default.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: replaceLevel,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a configured level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}

// Critical logs msg at LevelCritical on the default logger.
func Critical(ctx context.Context, msg string, args ...any) {
	slog.Default().Log(ctx, LevelCritical, msg, args...)
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}
