package cartstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/edukit/edukit/pkg/persist"
)

// Item is one course waiting for checkout.
type Item struct {
	CourseID string  `json:"courseId"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
}

// persisted is the durable cart shape under persist.CartKey.
type persisted struct {
	Items []Item `json:"items"`
}

// Store holds the shopping cart and persists it across sessions. A
// course can sit in the cart at most once; adding it again updates the
// stored title and price instead of duplicating the line.
type Store struct {
	storage   persist.Store
	hydration *persist.Hydration
	items     []Item
	mu        sync.RWMutex
}

// New creates an empty cart backed by the given persistence.
func New(storage persist.Store) *Store {
	return &Store{
		storage:   storage,
		hydration: persist.NewHydration(),
	}
}

// Hydrate restores the persisted cart asynchronously. A missing or
// corrupt blob hydrates to an empty cart.
func (s *Store) Hydrate(ctx context.Context) *persist.Hydration {
	go func() {
		defer s.hydration.Complete(nil)

		blob, err := s.storage.Load(ctx, persist.CartKey)
		if err != nil {
			return
		}
		var p persisted
		if err := json.Unmarshal(blob, &p); err != nil {
			return
		}

		s.mu.Lock()
		s.items = p.Items
		s.mu.Unlock()
	}()
	return s.hydration
}

// Hydration returns the store's hydration signal.
func (s *Store) Hydration() *persist.Hydration {
	return s.hydration
}

// Add puts a course into the cart, or refreshes its line if present.
func (s *Store) Add(ctx context.Context, item Item) error {
	if item.CourseID == "" {
		return nil
	}

	s.mu.Lock()
	replaced := false
	for i := range s.items {
		if s.items[i].CourseID == item.CourseID {
			s.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		s.items = append(s.items, item)
	}
	s.mu.Unlock()

	return s.save(ctx)
}

// Remove drops a course from the cart. Removing an absent course is a
// no-op.
func (s *Store) Remove(ctx context.Context, courseID string) error {
	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.CourseID != courseID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.mu.Unlock()

	return s.save(ctx)
}

// Clear empties the cart, typically after a successful checkout.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	return s.storage.Delete(ctx, persist.CartKey)
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Contains reports whether the course is in the cart.
func (s *Store) Contains(courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.CourseID == courseID {
			return true
		}
	}
	return false
}

// Count returns the number of cart lines.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Subtotal sums the line prices.
func (s *Store) Subtotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	for _, it := range s.items {
		sum += it.Price
	}
	return sum
}

func (s *Store) save(ctx context.Context) error {
	s.mu.RLock()
	p := persisted{Items: s.items}
	blob, err := json.Marshal(p)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, persist.CartKey, blob)
}
