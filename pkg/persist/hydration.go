package persist

import (
	"context"
	"sync"
)

// Hydration is an awaitable completion signal for asynchronous state
// restoration. Derived state (authentication flags, guard decisions)
// must not be trusted until the signal completes.
type Hydration struct {
	done chan struct{}
	err  error
	once sync.Once
}

// NewHydration creates a pending hydration signal.
func NewHydration() *Hydration {
	return &Hydration{done: make(chan struct{})}
}

// Complete marks hydration as finished. Subsequent calls are no-ops, so
// a store cannot accidentally re-open the signal.
func (h *Hydration) Complete(err error) {
	h.once.Do(func() {
		h.err = err
		close(h.done)
	})
}

// Done returns a channel closed once hydration completes.
func (h *Hydration) Done() <-chan struct{} {
	return h.done
}

// Completed reports whether hydration has finished without blocking.
func (h *Hydration) Completed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait blocks until hydration completes or the context is canceled.
// Returns the hydration error, if any.
func (h *Hydration) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return h.err
	}
}

// Err returns the hydration error. Only meaningful after completion.
func (h *Hydration) Err() error {
	return h.err
}
