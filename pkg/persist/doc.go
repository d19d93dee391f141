// Package persist provides durable client-side storage: one JSON blob
// per well-known key, with an awaitable hydration signal.
//
// Three backends implement the same [Store] interface: [File] for local
// state directories, [Redis] for state shared across hosts, and
// [Memory] for tests. Each application store (auth, cart, locale,
// theme) owns one key and rehydrates asynchronously on startup.
//
// Rehydration must be awaited before trusting derived state:
//
//	store := authstore.New(persist.NewMemory())
//	store.Hydrate(ctx)
//	if err := store.Hydration().Wait(ctx); err != nil {
//	    // fall back to logged-out state
//	}
//
// [Hydration] completes exactly once; late subscribers observe the
// closed channel immediately.
package persist
