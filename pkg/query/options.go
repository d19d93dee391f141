package query

import (
	"log/slog"
	"time"
)

// Option configures the Store.
type Option func(*storeOptions)

type storeOptions struct {
	deps             map[Resource][]Resource
	log              *slog.Logger
	defaultStaleTime time.Duration
	retries          int
	retryDelay       time.Duration
	maxEntries       int
}

func defaultStoreOptions() *storeOptions {
	return &storeOptions{
		deps:             map[Resource][]Resource{},
		defaultStaleTime: 5 * time.Minute,
		retries:          1,
		retryDelay:       100 * time.Millisecond,
		maxEntries:       0, // 0 = unlimited
	}
}

// WithDefaultStaleTime sets how long fetched entries are served without
// a revalidation. Chosen high for content-browsing UIs where redundant
// refetches are wasted traffic.
// Default: 5 minutes.
func WithDefaultStaleTime(d time.Duration) Option {
	return func(o *storeOptions) {
		if d > 0 {
			o.defaultStaleTime = d
		}
	}
}

// WithRetries sets the default read retry count. Mutations are never
// retried regardless of this setting.
// Default: 1.
func WithRetries(n int) Option {
	return func(o *storeOptions) {
		if n >= 0 {
			o.retries = n
		}
	}
}

// WithRetryDelay sets the pause between read retries.
// Default: 100ms.
func WithRetryDelay(d time.Duration) Option {
	return func(o *storeOptions) {
		if d > 0 {
			o.retryDelay = d
		}
	}
}

// WithMaxEntries bounds the cache; the least recently used entry is
// evicted at capacity. Zero means unlimited.
// Default: 0.
func WithMaxEntries(n int) Option {
	return func(o *storeOptions) {
		o.maxEntries = n
	}
}

// WithDependencies sets the invalidation graph: mutating a resource
// also invalidates every resource listed for it, transitively.
func WithDependencies(deps map[Resource][]Resource) Option {
	return func(o *storeOptions) {
		if deps != nil {
			o.deps = deps
		}
	}
}

// WithLogger sets the logger for background refetch failures and other
// non-fatal conditions.
func WithLogger(log *slog.Logger) Option {
	return func(o *storeOptions) {
		o.log = log
	}
}

// FetchOption overrides fetch policy for one call.
type FetchOption func(*fetchOptions)

type fetchOptions struct {
	staleTime  time.Duration
	retryDelay time.Duration
	retries    int
	enabled    bool
}

func (s *Store) resolveFetchOptions(opts []FetchOption) fetchOptions {
	fo := fetchOptions{
		staleTime:  s.opts.defaultStaleTime,
		retryDelay: s.opts.retryDelay,
		retries:    s.opts.retries,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(&fo)
	}
	return fo
}

// WithStaleTime overrides the stale time for this fetch.
func WithStaleTime(d time.Duration) FetchOption {
	return func(o *fetchOptions) {
		if d > 0 {
			o.staleTime = d
		}
	}
}

// WithFetchRetries overrides the read retry count for this fetch.
func WithFetchRetries(n int) FetchOption {
	return func(o *fetchOptions) {
		if n >= 0 {
			o.retries = n
		}
	}
}

// WithEnabled gates the fetch. Disabled fetches return ErrDisabled
// without touching the network; callers use this when a required key
// parameter (an id, typically) is not available yet.
func WithEnabled(enabled bool) FetchOption {
	return func(o *fetchOptions) {
		o.enabled = enabled
	}
}

// MutateOption configures invalidation behavior for one mutation.
type MutateOption func(*mutateOptions)

type mutateOptions struct {
	extra    []Resource
	detailID string
}

func resolveMutateOptions(opts []MutateOption) mutateOptions {
	var mo mutateOptions
	for _, opt := range opts {
		opt(&mo)
	}
	return mo
}

// WithExtraInvalidate invalidates additional resources beyond the
// mutated one and its graph dependents.
func WithExtraInvalidate(resources ...Resource) MutateOption {
	return func(o *mutateOptions) {
		o.extra = append(o.extra, resources...)
	}
}

// WithDetailID also invalidates the detail key of the mutated entity.
func WithDetailID(id string) MutateOption {
	return func(o *mutateOptions) {
		o.detailID = id
	}
}
