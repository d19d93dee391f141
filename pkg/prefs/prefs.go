package prefs

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/edukit/edukit/pkg/persist"
)

// Theme is the UI theme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func validTheme(t Theme) bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// ThemeStore persists the theme preference under persist.ThemeKey.
// Invalid persisted values hydrate to the system default.
type ThemeStore struct {
	storage   persist.Store
	hydration *persist.Hydration
	theme     Theme
	mu        sync.RWMutex
}

// NewThemeStore creates a theme store defaulting to ThemeSystem.
func NewThemeStore(storage persist.Store) *ThemeStore {
	return &ThemeStore{
		storage:   storage,
		hydration: persist.NewHydration(),
		theme:     ThemeSystem,
	}
}

// Hydrate restores the persisted preference asynchronously.
func (s *ThemeStore) Hydrate(ctx context.Context) *persist.Hydration {
	go func() {
		defer s.hydration.Complete(nil)

		blob, err := s.storage.Load(ctx, persist.ThemeKey)
		if err != nil {
			return
		}
		var t Theme
		if err := json.Unmarshal(blob, &t); err != nil || !validTheme(t) {
			return
		}

		s.mu.Lock()
		s.theme = t
		s.mu.Unlock()
	}()
	return s.hydration
}

// Hydration returns the store's hydration signal.
func (s *ThemeStore) Hydration() *persist.Hydration {
	return s.hydration
}

// Theme returns the current preference.
func (s *ThemeStore) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme switches and persists the preference. Invalid themes are
// ignored.
func (s *ThemeStore) SetTheme(ctx context.Context, t Theme) error {
	if !validTheme(t) {
		return nil
	}

	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()

	blob, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, persist.ThemeKey, blob)
}
