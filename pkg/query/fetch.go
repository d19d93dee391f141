package query

import (
	"context"
	"time"
)

// FetchFunc loads a value from the backend for one cache key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// MutateFunc performs one write against the backend.
type MutateFunc[T any] func(ctx context.Context) (T, error)

// Fetch reads a value through the cache:
//
//   - fresh entry: returned immediately, no network call;
//   - age-expired entry: returned immediately, a background refetch is
//     scheduled (the next read sees the fresh value);
//   - miss, or explicitly invalidated entry: fn is called and the read
//     blocks on it, deduplicated per key via singleflight so concurrent
//     readers of the same key share one request. Invalidation discards
//     the cached value, so a read after a mutation never observes
//     pre-mutation data.
//
// Fetch with Enabled=false returns ErrDisabled without issuing a
// request, for callers whose key parameters are incomplete.
//
// Settles are ordered by initiation sequence: a response from an
// earlier request that resolves after a newer one has committed is
// discarded rather than overwriting the fresher data.
func Fetch[T any](ctx context.Context, s *Store, key Key, fn FetchFunc[T], opts ...FetchOption) (T, error) {
	var zero T

	fo := s.resolveFetchOptions(opts)
	if !fo.enabled {
		return zero, ErrDisabled
	}

	keyStr := key.String()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return zero, ErrClosed
	}
	if e, ok := s.lookupLocked(keyStr); ok && e.err == nil {
		if v, ok := e.value.(T); ok {
			if e.staleAt.After(time.Now()) {
				s.mu.Unlock()
				return v, nil
			}
			// Serve stale, revalidate in the background. The refetch
			// outlives the caller's context on purpose: an unmounting
			// component must not cancel a shared revalidation.
			s.mu.Unlock()
			bgCtx := context.WithoutCancel(ctx)
			go func() {
				if _, err := runFetch[T](bgCtx, s, keyStr, fn, fo); err != nil && s.log != nil {
					s.log.Warn("background refetch failed",
						"key", keyStr,
						"error", err.Error(),
					)
				}
			}()
			return v, nil
		}
	}
	s.mu.Unlock()

	return runFetch[T](ctx, s, keyStr, fn, fo)
}

// Mutate performs a write and invalidates the resource's cached
// entries, transitively through the dependency graph. Writes are never
// retried: a failed mutation is returned to the caller for display, not
// silently replayed.
func Mutate[T any](ctx context.Context, s *Store, resource Resource, fn MutateFunc[T], opts ...MutateOption) (T, error) {
	var zero T

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return zero, ErrClosed
	}

	mo := resolveMutateOptions(opts)

	val, err := fn(ctx)
	if err != nil {
		return zero, err
	}

	s.InvalidateTree(resource)
	for _, extra := range mo.extra {
		s.InvalidateTree(extra)
	}
	if mo.detailID != "" {
		s.InvalidateKey(DetailKey(resource, mo.detailID))
	}

	return val, nil
}

// Prime seeds the cache with a known value, e.g. the entity a create
// mutation just returned. A zero staleTime uses the store default.
func Prime[T any](s *Store, key Key, value T, staleTime time.Duration) {
	if staleTime <= 0 {
		staleTime = s.opts.defaultStaleTime
	}
	s.commit(key.String(), s.nextSeq(), value, time.Now().Add(staleTime), nil)
}

// runFetch performs the network fetch for a key with bounded retries,
// deduplicated via singleflight, and commits the settled result.
func runFetch[T any](ctx context.Context, s *Store, keyStr string, fn FetchFunc[T], fo fetchOptions) (T, error) {
	v, err, _ := s.sf.Do(keyStr, func() (any, error) {
		seq := s.nextSeq()
		s.markFetching(keyStr, true)

		var val T
		var ferr error
		for attempt := 0; ; attempt++ {
			val, ferr = fn(ctx)
			if ferr == nil || attempt >= fo.retries {
				break
			}
			select {
			case <-ctx.Done():
				ferr = ctx.Err()
			case <-time.After(fo.retryDelay):
				continue
			}
			break
		}

		s.commit(keyStr, seq, val, time.Now().Add(fo.staleTime), ferr)
		if ferr != nil {
			return nil, ferr
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
