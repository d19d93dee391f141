package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukit/edukit/pkg/logger"
)

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	t.Run("injects request-scoped attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := slog.NewJSONHandler(&buf, nil)
		log := slog.New(logger.NewHandler(h, logger.RequestID, logger.UserID, logger.Locale))

		ctx := logger.WithRequestID(context.Background(), "req-1")
		ctx = logger.WithUserID(ctx, "u-42")
		log.InfoContext(ctx, "lecture loaded")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "req-1", rec["request_id"])
		require.Equal(t, "u-42", rec["user_id"])
		_, hasLocale := rec["locale"]
		require.False(t, hasLocale, "unset context values stay out of the record")
	})

	t.Run("plain context logs without extras", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(logger.NewHandler(slog.NewJSONHandler(&buf, nil), logger.RequestID))

		log.InfoContext(context.Background(), "startup")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "startup", rec["msg"])
		_, ok := rec["request_id"]
		require.False(t, ok)
	})

	t.Run("nil extractors are tolerated", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(logger.NewHandler(slog.NewJSONHandler(&buf, nil), nil, logger.RequestID, nil))

		ctx := logger.WithRequestID(context.Background(), "req-2")
		log.InfoContext(ctx, "ok")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		require.Equal(t, "req-2", rec["request_id"])
	})
}

func TestNewMultiHandler(t *testing.T) {
	t.Parallel()

	t.Run("fans out with per-destination levels", func(t *testing.T) {
		t.Parallel()

		var all, warnOnly bytes.Buffer
		log := slog.New(logger.NewMultiHandler([]slog.Handler{
			slog.NewJSONHandler(&all, &slog.HandlerOptions{Level: slog.LevelInfo}),
			slog.NewJSONHandler(&warnOnly, &slog.HandlerOptions{Level: slog.LevelWarn}),
		}, logger.RequestID))

		ctx := logger.WithRequestID(context.Background(), "req-7")
		log.InfoContext(ctx, "progress saved")
		log.WarnContext(ctx, "quiz submit retried")

		require.Equal(t, 2, bytes.Count(all.Bytes(), []byte("\n")))
		require.Equal(t, 1, bytes.Count(warnOnly.Bytes(), []byte("\n")))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(warnOnly.Bytes(), &rec))
		require.Equal(t, "quiz submit retried", rec["msg"])
		require.Equal(t, "req-7", rec["request_id"], "extracted attributes reach every destination")
	})
}

func TestNewNop(t *testing.T) {
	t.Parallel()

	log := logger.NewNop()
	require.NotNil(t, log)
	log.Info("discarded")
}

func TestNewWithSentry_FallsBackWithoutDSN(t *testing.T) {
	t.Parallel()

	log := logger.NewWithSentry(logger.SentryConfig{})
	require.NotNil(t, log)
}
