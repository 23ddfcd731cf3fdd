package app

import (
	"io"
	"log/slog"
)

// newLogger builds the App's own slog.Logger from validated config values.
// It never touches the process-global default, so each App instance (and
// each test) gets isolated log output on its outW.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(levelStr)}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}

// parseLevel maps a config level string to its slog.Level. The cli package
// rejects anything outside this set, so unknowns here just mean "info".
func parseLevel(s string) slog.Level {
	switch s {
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
