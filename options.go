package edukit

import (
	"log/slog"

	"github.com/edukit/edukit/pkg/apiclient"
	"github.com/edukit/edukit/pkg/authstore"
	"github.com/edukit/edukit/pkg/logger"
	"github.com/edukit/edukit/pkg/persist"
	"github.com/edukit/edukit/pkg/query"
)

// Option configures the Client.
type Option func(*clientOptions)

type clientOptions struct {
	storage   persist.Store
	log       *slog.Logger
	apiOpts   []apiclient.Option
	queryOpts []query.Option
	authOpts  []authstore.Option
}

func defaultClientOptions() *clientOptions {
	return &clientOptions{
		storage: persist.NewMemory(),
		log:     logger.NewNop(),
	}
}

// WithStorage sets the persisted storage backend shared by the auth,
// cart, locale, and theme stores.
// Default: in-memory, nothing survives the process.
func WithStorage(s persist.Store) Option {
	return func(o *clientOptions) {
		if s != nil {
			o.storage = s
		}
	}
}

// WithLogger sets the logger for background refetch failures and
// envelope warnings.
// Default: no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *clientOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithAPIOptions forwards options to the HTTP client (base URL,
// timeout, retries).
func WithAPIOptions(opts ...apiclient.Option) Option {
	return func(o *clientOptions) {
		o.apiOpts = append(o.apiOpts, opts...)
	}
}

// WithQueryOptions forwards options to the query cache (stale time,
// retries, capacity).
func WithQueryOptions(opts ...query.Option) Option {
	return func(o *clientOptions) {
		o.queryOpts = append(o.queryOpts, opts...)
	}
}

// WithAuthOptions forwards options to the auth store (token expiry
// checking).
func WithAuthOptions(opts ...authstore.Option) Option {
	return func(o *clientOptions) {
		o.authOpts = append(o.authOpts, opts...)
	}
}
