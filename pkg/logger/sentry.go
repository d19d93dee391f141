package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/joho/godotenv"
)

// SentryConfig holds error-reporting configuration.
type SentryConfig struct {
	DSN         string
	Environment string
	// MinLevel selects which records are forwarded as Sentry logs.
	// Errors always create Issues.
	MinLevel slog.Level
}

// LoadSentryConfig reads SENTRY_DSN and SENTRY_ENVIRONMENT from the
// environment, loading a .env file first when present.
func LoadSentryConfig() SentryConfig {
	_ = godotenv.Load()

	cfg := SentryConfig{
		DSN:         os.Getenv("SENTRY_DSN"),
		Environment: os.Getenv("SENTRY_ENVIRONMENT"),
		MinLevel:    slog.LevelWarn,
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}
	return cfg
}

// NewWithSentry creates a logger writing to both stdout and Sentry.
// With an empty DSN, or when Sentry initialization fails, it falls back
// to stdout only so local development needs no configuration.
func NewWithSentry(cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if cfg.DSN == "" {
		return slog.New(newContextHandler(extractors, stdout))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("sentry init failed", slog.String("error", err.Error()))
		return slog.New(newContextHandler(extractors, stdout))
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(newContextHandler(extractors, stdout, sentryHandler))
}
