// Package logging builds the process-wide slog.Logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the level, format and destination of the logger.
type Options struct {
	Level  string    // debug, info, warn or error; empty means info
	Format string    // text or json; empty means text
	Output io.Writer // defaults to os.Stderr
}

func level(option string) (slog.Leveler, bool) {
	switch strings.ToLower(strings.TrimSpace(option)) {
	case "":
		return slog.LevelInfo, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

// New returns a logger for opts. Unknown levels or formats fall back to the
// defaults and the returned logger reports the bad value once at warn level.
func New(opts Options) *slog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	var warnings []string

	lvl, ok := level(opts.Level)
	if !ok {
		warnings = append(warnings, "could not parse log level")
		lvl = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		handler = slog.NewJSONHandler(output, handlerOpts)
	case "", "text":
		handler = slog.NewTextHandler(output, handlerOpts)
	default:
		warnings = append(warnings, "could not parse log format")
		handler = slog.NewTextHandler(output, handlerOpts)
	}

	logger := slog.New(handler)
	for _, w := range warnings {
		logger.Warn(w, "level", opts.Level, "format", opts.Format)
	}
	return logger
}
