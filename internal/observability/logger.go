package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/gridwright/genx-input-etl/internal/config"
)

// NewLogger builds a slog.Logger from config. When extra is non-nil the
// logger writes to both stdout and extra; the pipeline passes the run's
// log.txt so every results folder carries its own log for reproducibility.
func NewLogger(cfg *config.Config, extra io.Writer) *slog.Logger {
	var out io.Writer = os.Stdout
	if extra != nil {
		out = io.MultiWriter(os.Stdout, extra)
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}
