package app

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the process logger. A headless JSON API defaults to JSON
// output; set LOG_FORMAT=pretty for human-readable local development logs.
func NewLogger(cfg *Config) *slog.Logger {
	format := ""
	if cfg != nil {
		format = cfg.LogFormat
	}
	return slog.New(newLogHandler(os.Stdout, format))
}

func newLogHandler(w io.Writer, format string) slog.Handler {
	opts := &slog.HandlerOptions{AddSource: true}
	switch format {
	case "pretty", "text":
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}
