// Package query is the client-side data-synchronization core: a
// process-wide cache of backend query results keyed by resource name
// plus normalized filter parameters, with explicit invalidation.
//
// # Keys
//
// A [Key] is a resource name and a canonicalized parameter map. Empty
// parameter values are dropped before the key is rendered, so a filter
// with an unset field and one without the field share a cache entry.
//
// # Reads
//
// [Fetch] serves fresh entries from cache, serves age-expired entries
// while revalidating in the background, and deduplicates concurrent
// misses for the same key through singleflight: at most one request is
// in flight per key, and every settle is ordered by initiation sequence
// so a slow early response can never overwrite a fresher result.
// Explicitly invalidated entries are never served stale; the next read
// blocks on a fresh request.
//
//	list, err := query.Fetch(ctx, store, query.NewKey("courses", filter),
//	    func(ctx context.Context) (envelope.List[Course], error) {
//	        return fetchCourses(ctx, filter)
//	    })
//
// # Writes
//
// [Mutate] runs the write exactly once (no automatic retry) and, on
// success, invalidates the resource's entire key prefix plus every
// dependent resource declared in the invalidation graph. The graph is
// explicit data validated by [ValidateDependencies], not a naming
// convention.
//
// # Discipline
//
// Read through cache keys, write through invalidation. Nothing outside
// this package mutates entries directly.
package query
