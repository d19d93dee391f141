// Package logger provides structured logging for the client runtime.
//
// It builds on log/slog and adds two things: context extractors that
// inject request-scoped attributes (request id, user id, locale) into
// every record, and optional Sentry forwarding with graceful fallback
// when no DSN is configured.
//
//	log := logger.New(logger.RequestID, logger.UserID)
//
//	ctx := logger.WithRequestID(context.Background(), "abc-123")
//	log.InfoContext(ctx, "course list refreshed", slog.Int("count", 12))
//
// For production error tracking:
//
//	log := logger.NewWithSentry(logger.LoadSentryConfig(), logger.RequestID)
//
// Components that accept a logger default to [NewNop], so logging is
// always opt-in.
package logger
