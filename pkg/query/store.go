package query

import (
	"container/list"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Status describes the lifecycle state of a cache entry.
type Status int

const (
	// StatusFresh means the entry is within its stale time and served
	// without a network call.
	StatusFresh Status = iota

	// StatusStale means the entry is served from cache but eligible
	// for a background refetch on next access.
	StatusStale

	// StatusFetching means a fetch for the key is in flight.
	StatusFetching

	// StatusError means the last fetch for the key failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusStale:
		return "stale"
	case StatusFetching:
		return "fetching"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// entry holds one cached query result. seq orders commits: a settle
// carrying an older sequence than the stored one must not overwrite it.
type entry struct {
	fetchedAt time.Time
	staleAt   time.Time
	value     any
	err       error
	key       string
	seq       uint64
	fetching  bool
}

// EntryInfo is a read-only snapshot of a cache entry's bookkeeping.
type EntryInfo struct {
	FetchedAt time.Time
	StaleAt   time.Time
	Err       error
	Status    Status
}

// Store is the process-wide query cache shared by every resource
// binding. Reads go through cache keys; writes go through explicit
// invalidation; nothing mutates another resource's entries directly.
type Store struct {
	items     map[string]*list.Element
	eviction  *list.List
	deps      map[Resource][]Resource
	listeners map[int]func(Resource)
	log       *slog.Logger
	opts      *storeOptions
	sf        singleflight.Group
	nextSub   int
	seq       uint64
	mu        sync.Mutex
	closed    bool
}

// New creates a query store.
//
// Example:
//
//	s := query.New(
//	    query.WithDefaultStaleTime(5 * time.Minute),
//	    query.WithMaxEntries(1000),
//	    query.WithDependencies(graph),
//	)
func New(opts ...Option) *Store {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Store{
		items:     make(map[string]*list.Element),
		eviction:  list.New(),
		deps:      o.deps,
		listeners: make(map[int]func(Resource)),
		log:       o.log,
		opts:      o,
	}
}

// Invalidate discards every cached value of the resource, across all
// filter combinations, and forgets any in-flight fetch so the next read
// blocks on a fresh request. Explicit invalidation is stronger than
// age-based staleness: an age-expired entry is still served while it
// revalidates, an invalidated one never is, so a read issued right
// after a mutation cannot observe pre-mutation data. Returns the number
// of entries touched.
func (s *Store) Invalidate(resource Resource) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidateLocked(resource)
}

// InvalidateTree invalidates the resource and, transitively, every
// resource that depends on it per the dependency graph.
func (s *Store) InvalidateTree(resource Resource) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := 0
	seen := map[Resource]bool{}
	queue := []Resource{resource}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		if seen[r] {
			continue
		}
		seen[r] = true
		touched += s.invalidateLocked(r)
		queue = append(queue, s.deps[r]...)
	}
	return touched
}

// InvalidateKey discards a single entry's value so the next read for
// the key blocks on a fresh request.
func (s *Store) InvalidateKey(key Key) {
	keyStr := key.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sf.Forget(keyStr)
	if elem, ok := s.items[keyStr]; ok {
		s.invalidateEntryLocked(elem.Value.(*entry))
	}
	s.notifyLocked(key.Resource)
}

// Remove drops every cached entry of the resource entirely instead of
// marking it stale. Used on logout so another user's data cannot be
// served from cache.
func (s *Store) Remove(resource Resource) {
	prefix := resource.prefix()

	s.mu.Lock()
	defer s.mu.Unlock()

	for keyStr, elem := range s.items {
		if strings.HasPrefix(keyStr, prefix) {
			s.sf.Forget(keyStr)
			s.removeElement(elem)
		}
	}
}

// Clear drops all cached entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for keyStr := range s.items {
		s.sf.Forget(keyStr)
	}
	s.items = make(map[string]*list.Element)
	s.eviction.Init()
}

// Info returns a snapshot of the entry's bookkeeping, if cached.
func (s *Store) Info(key Key) (EntryInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key.String()]
	if !ok {
		return EntryInfo{}, false
	}
	e := elem.Value.(*entry)

	info := EntryInfo{FetchedAt: e.fetchedAt, StaleAt: e.staleAt, Err: e.err}
	switch {
	case e.fetching:
		info.Status = StatusFetching
	case e.err != nil:
		info.Status = StatusError
	case e.staleAt.After(time.Now()):
		info.Status = StatusFresh
	default:
		info.Status = StatusStale
	}
	return info, true
}

// Subscribe registers a listener notified with the resource name each
// time entries are invalidated. Returns an unsubscribe function; call
// it on teardown so unmounted consumers stop receiving notifications.
func (s *Store) Subscribe(fn func(Resource)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Dependencies returns the configured invalidation graph.
func (s *Store) Dependencies() map[Resource][]Resource {
	return s.deps
}

// Close marks the store closed. Subsequent fetches fail with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ValidateDependencies checks that the invalidation graph covers every
// declared resource and references no undeclared ones. The root package
// runs this at construction so a new resource cannot be added without
// deciding its invalidation edges.
func ValidateDependencies(graph map[Resource][]Resource, resources []Resource) error {
	declared := make(map[Resource]bool, len(resources))
	for _, r := range resources {
		declared[r] = true
	}

	for _, r := range resources {
		if _, ok := graph[r]; !ok {
			return &GraphError{Resource: r, Reason: "not present in graph"}
		}
	}
	for r, targets := range graph {
		if !declared[r] {
			return &GraphError{Resource: r, Reason: "graph key not declared"}
		}
		for _, target := range targets {
			if !declared[target] {
				return &GraphError{Resource: target, Reason: "graph target not declared"}
			}
		}
	}
	return nil
}

// GraphError reports an inconsistency in the invalidation graph.
type GraphError struct {
	Reason   string
	Resource Resource
}

func (e *GraphError) Error() string {
	return "query: invalidation graph: " + string(e.Resource) + " " + e.Reason
}

func (e *GraphError) Unwrap() error { return ErrUnknownResource }

// --- internal ---

func (s *Store) invalidateLocked(resource Resource) int {
	prefix := resource.prefix()
	touched := 0
	for keyStr, elem := range s.items {
		if strings.HasPrefix(keyStr, prefix) {
			s.sf.Forget(keyStr)
			s.invalidateEntryLocked(elem.Value.(*entry))
			touched++
		}
	}
	s.notifyLocked(resource)
	return touched
}

// invalidateEntryLocked discards the entry's value and advances its
// sequence past every fetch initiated so far, so a pre-invalidation
// response still in flight is discarded at commit instead of
// resurrecting the old data. Caller must hold the mutex.
func (s *Store) invalidateEntryLocked(e *entry) {
	s.seq++
	e.seq = s.seq
	e.value = nil
	e.staleAt = time.Time{}
	// The forgotten in-flight call, if any, is detached now; its commit
	// will be discarded by the sequence check.
	e.fetching = false
}

// notifyLocked invokes listeners outside the lock to avoid deadlocks
// when a listener calls back into the store.
func (s *Store) notifyLocked(resource Resource) {
	fns := make([]func(Resource), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	go func() {
		for _, fn := range fns {
			fn(resource)
		}
	}()
}

// lookup returns the entry for the key, refreshing its LRU position.
// Caller must hold the mutex.
func (s *Store) lookupLocked(keyStr string) (*entry, bool) {
	elem, ok := s.items[keyStr]
	if !ok {
		return nil, false
	}
	s.eviction.MoveToFront(elem)
	return elem.Value.(*entry), true
}

// commit stores a settled fetch result. A settle whose sequence is
// older than the stored one is discarded: the later-initiated request
// already won.
func (s *Store) commit(keyStr string, seq uint64, value any, staleAt time.Time, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	if elem, ok := s.items[keyStr]; ok {
		e := elem.Value.(*entry)
		if e.seq > seq {
			return false
		}
		e.seq = seq
		e.fetching = false
		if err != nil {
			e.err = err
			return true
		}
		e.value = value
		e.err = nil
		e.fetchedAt = time.Now()
		e.staleAt = staleAt
		s.eviction.MoveToFront(elem)
		return true
	}

	if s.opts.maxEntries > 0 && len(s.items) >= s.opts.maxEntries {
		if oldest := s.eviction.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}

	e := &entry{key: keyStr, seq: seq, err: err}
	if err == nil {
		e.value = value
		e.fetchedAt = time.Now()
		e.staleAt = staleAt
	}
	s.items[keyStr] = s.eviction.PushFront(e)
	return true
}

// markFetching flags the entry as having an in-flight request. A
// placeholder entry is created for first-time keys so invalidation can
// see (and forget) in-flight fetches that have not settled yet.
func (s *Store) markFetching(keyStr string, fetching bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[keyStr]; ok {
		elem.Value.(*entry).fetching = fetching
		return
	}
	if !fetching {
		return
	}

	if s.opts.maxEntries > 0 && len(s.items) >= s.opts.maxEntries {
		if oldest := s.eviction.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}
	s.items[keyStr] = s.eviction.PushFront(&entry{key: keyStr, fetching: true})
}

// removeElement drops an entry. Caller must hold the mutex.
func (s *Store) removeElement(elem *list.Element) {
	e := elem.Value.(*entry)
	s.eviction.Remove(elem)
	delete(s.items, e.key)
}

// nextSeq hands out the initiation order for fetches.
func (s *Store) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}
