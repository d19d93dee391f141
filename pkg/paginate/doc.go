// Package paginate holds page, limit, and filter state for listing
// screens and debounces change notifications.
//
// The controller enforces the pagination invariants at the call site:
// changing the limit (or any filter) always resets the page to 1, and
// Reset restores the initial snapshot rather than clearing to nothing.
// A burst of changes (a user typing into a search box) reschedules
// one debounce timer, so only the final state triggers a request.
//
// [Snapshot.Params] feeds the query cache key directly:
//
//	ctrl := paginate.New(
//	    paginate.WithLimit(12),
//	    paginate.OnChange(func(s paginate.Snapshot) {
//	        _, _ = query.Fetch(ctx, store, query.NewKey("courses", s.Params()), fetchCourses(s))
//	    }),
//	)
//	ctrl.SetFilter("search", "go")
package paginate
