package persist

import (
	"context"
	"errors"
)

// Well-known storage keys. Each holds one independent JSON blob.
const (
	AuthKey   = "auth-storage"
	CartKey   = "cart-storage"
	LocaleKey = "locale-storage"
	ThemeKey  = "theme-storage"
)

// Sentinel errors for persistence operations.
var (
	// ErrNotFound is returned when no blob exists under the key.
	ErrNotFound = errors.New("persist: blob not found")

	// ErrNotHydrated is returned when derived state is read before
	// hydration has completed.
	ErrNotHydrated = errors.New("persist: store not hydrated")
)

// Store persists one JSON blob per storage key. Implementations are
// safe for concurrent use.
type Store interface {
	// Load retrieves the blob stored under key.
	// Returns ErrNotFound if the key has never been saved.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save writes the blob under key, replacing any previous value.
	Save(ctx context.Context, key string, blob []byte) error

	// Delete removes the blob under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error
}
