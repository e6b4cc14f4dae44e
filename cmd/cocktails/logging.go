package main

import (
	"log/slog"
	"os"
	"strings"
)

// logLevels maps LOG_LEVEL values; anything unrecognized falls back to
// info rather than failing startup.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// setupLogger builds the process logger writing to stdout. JSON is the
// container default; text is for running locally.
func setupLogger(level, format string) *slog.Logger {
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(
		"service", "cocktail-menu",
		"version", Version,
		"pid", os.Getpid(),
	)
}
