package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls a slog attribute out of a context. Returning
// false skips the attribute for that record.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	userIDKey
	localeKey
)

// WithRequestID stores the request correlation id in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithUserID stores the signed-in user's id in the context.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// WithLocale stores the active UI locale in the context.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

// RequestID extracts the request id set by WithRequestID.
func RequestID(ctx context.Context) (slog.Attr, bool) {
	return extract(ctx, requestIDKey, "request_id")
}

// UserID extracts the user id set by WithUserID.
func UserID(ctx context.Context) (slog.Attr, bool) {
	return extract(ctx, userIDKey, "user_id")
}

// Locale extracts the locale set by WithLocale.
func Locale(ctx context.Context) (slog.Attr, bool) {
	return extract(ctx, localeKey, "locale")
}

func extract(ctx context.Context, key ctxKey, name string) (slog.Attr, bool) {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return slog.String(name, v), true
	}
	return slog.Attr{}, false
}
