// Package edukit is the client-side data layer for a multi-role
// e-learning frontend: one configured HTTP client, a shared
// stale-while-revalidate query cache with dependency-graph
// invalidation, persisted auth/cart/locale/theme stores with awaitable
// hydration, and role-gated navigation guards.
//
// Construct a [Client] once, hydrate it, and read everything through
// the typed resource bindings:
//
//	storage, err := persist.NewFile(dir)
//	if err != nil {
//	    return err
//	}
//	client, err := edukit.New(
//	    edukit.WithStorage(storage),
//	    edukit.WithAPIOptions(apiclient.WithBaseURL("https://api.example.com")),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := client.Hydrate(ctx); err != nil {
//	    return err
//	}
//
//	page, err := client.Courses().List(ctx, map[string]string{
//	    "page": "1", "limit": "10", "category": "go",
//	})
//
// Reads are cached per (resource, filters) key and deduplicated, so
// two components listing the same filter share one request. Writes go
// through Create/Update/Delete, which invalidate the mutated resource
// and its dependents so the next list reflects the change without a
// manual reload.
package edukit
