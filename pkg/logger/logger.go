package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a JSON logger writing to stdout. Extractors add
// request-scoped attributes (see RequestID, UserID, Locale) to every
// record logged with a context.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(newContextHandler(extractors, h))
}

// NewNop returns a logger that discards everything. Components take it
// as their default so logging stays optional.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
