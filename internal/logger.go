package internal

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger writes JSON with UTC timestamps in prod and text elsewhere.
func NewLogger(w io.Writer, env string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if env != "prod" {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey && len(groups) == 0 {
			return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(time.RFC3339Nano))
		}
		return a
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
