package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a configured application logger writing to Stderr, so Stdout stays
// free for graph documents piped to other tools.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates the application logger on an arbitrary writer.
// It standardizes common keys ("error" -> "err") and never prints API keys.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case "error":
				a.Key = "err"
			case "api_key", "key":
				a.Value = slog.StringValue("[redacted]")
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
