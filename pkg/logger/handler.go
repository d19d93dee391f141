package logger

import (
	"context"
	"log/slog"
)

// contextHandler injects context-extracted attributes into every record
// and fans the result out to one or more destinations. Extraction runs
// once per record regardless of how many destinations receive it.
type contextHandler struct {
	handlers   []slog.Handler
	extractors []ContextExtractor
}

// NewHandler wraps an arbitrary slog.Handler with context extraction.
// Use it to combine extractors with a custom output handler.
func NewHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	return newContextHandler(extractors, next)
}

// NewMultiHandler fans records out to several destinations, extracting
// context attributes once per record. A destination with a higher
// minimum level skips the records below it; the others still receive
// them.
func NewMultiHandler(handlers []slog.Handler, extractors ...ContextExtractor) slog.Handler {
	return newContextHandler(extractors, handlers...)
}

func newContextHandler(extractors []ContextExtractor, handlers ...slog.Handler) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &contextHandler{handlers: handlers, extractors: clean}
}

// Enabled reports whether any destination accepts the level.
func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, next := range h.handlers {
		if next.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle extracts context attributes once, then delivers the record to
// every destination that accepts its level.
func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}

	if len(h.handlers) == 1 {
		return h.handlers[0].Handle(ctx, rec)
	}
	for _, next := range h.handlers {
		if next.Enabled(ctx, rec.Level) {
			if err := next.Handle(ctx, rec.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, next := range h.handlers {
		handlers[i] = next.WithAttrs(attrs)
	}
	return &contextHandler{handlers: handlers, extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, next := range h.handlers {
		handlers[i] = next.WithGroup(name)
	}
	return &contextHandler{handlers: handlers, extractors: h.extractors}
}
