package locale

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/edukit/edukit/pkg/persist"
)

// Store persists the user's locale preference under
// persist.LocaleKey. An unsupported or corrupt persisted value
// hydrates to the default locale.
type Store struct {
	storage   persist.Store
	hydration *persist.Hydration
	locale    string
	mu        sync.RWMutex
}

// NewStore creates a locale store starting at the default locale.
func NewStore(storage persist.Store) *Store {
	return &Store{
		storage:   storage,
		hydration: persist.NewHydration(),
		locale:    Default,
	}
}

// Hydrate restores the persisted preference asynchronously.
func (s *Store) Hydrate(ctx context.Context) *persist.Hydration {
	go func() {
		defer s.hydration.Complete(nil)

		blob, err := s.storage.Load(ctx, persist.LocaleKey)
		if err != nil {
			return
		}
		var loc string
		if err := json.Unmarshal(blob, &loc); err != nil || !IsSupported(loc) {
			return
		}

		s.mu.Lock()
		s.locale = loc
		s.mu.Unlock()
	}()
	return s.hydration
}

// Hydration returns the store's hydration signal.
func (s *Store) Hydration() *persist.Hydration {
	return s.hydration
}

// Locale returns the current locale.
func (s *Store) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// SetLocale switches and persists the preference.
func (s *Store) SetLocale(ctx context.Context, loc string) error {
	if !IsSupported(loc) {
		return ErrUnsupported
	}

	s.mu.Lock()
	s.locale = loc
	s.mu.Unlock()

	blob, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, persist.LocaleKey, blob)
}
