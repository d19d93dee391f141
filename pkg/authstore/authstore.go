package authstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edukit/edukit/pkg/persist"
)

// Known user roles.
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleLearner    = "learner"
)

// User is the authenticated account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// UserPatch is a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Email     *string
	Name      *string
	AvatarURL *string
}

// State is a consistent snapshot of the session. IsAuthenticated is
// always derived from User and Token, never stored, so a tampered or
// half-written blob cannot produce an authenticated-with-no-user state.
type State struct {
	User            *User
	Token           string
	IsAuthenticated bool
}

// persisted is the durable shape. The derived flag is deliberately
// absent: rehydration recomputes it.
type persisted struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Store holds the current session, persists it under
// persist.AuthKey, and exposes an awaitable hydration signal. All
// transitions go through Login, Logout, and UpdateUser.
type Store struct {
	storage     persist.Store
	hydration   *persist.Hydration
	listeners   map[int]func(State)
	user        *User
	token       string
	nextSub     int
	mu          sync.RWMutex
	checkExpiry bool
}

// Option configures the Store.
type Option func(*Store)

// WithTokenExpiryCheck makes rehydration parse the bearer token as a
// JWT and discard sessions whose token is already expired. The token is
// not signature-verified; the backend does that on every request.
func WithTokenExpiryCheck() Option {
	return func(s *Store) {
		s.checkExpiry = true
	}
}

// New creates an auth store backed by the given persistence. The store
// starts logged out and not hydrated; call Hydrate.
func New(storage persist.Store, opts ...Option) *Store {
	s := &Store{
		storage:   storage,
		hydration: persist.NewHydration(),
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate restores the persisted session asynchronously. The returned
// hydration signal (also available via Hydration) completes when the
// state can be trusted. A missing or corrupt blob hydrates to the
// logged-out state, not an error.
func (s *Store) Hydrate(ctx context.Context) *persist.Hydration {
	go func() {
		defer s.hydration.Complete(nil)

		blob, err := s.storage.Load(ctx, persist.AuthKey)
		if err != nil {
			return // nothing persisted, stay logged out
		}

		var p persisted
		if err := json.Unmarshal(blob, &p); err != nil {
			return // corrupt blob, stay logged out
		}

		// The invariant user != nil && token != "" is re-derived here
		// rather than trusted from storage. Partial blobs hydrate to
		// logged out.
		if p.User == nil || p.Token == "" {
			return
		}
		if s.checkExpiry && tokenExpired(p.Token) {
			_ = s.storage.Delete(ctx, persist.AuthKey)
			return
		}

		s.mu.Lock()
		s.user = p.User
		s.token = p.Token
		s.mu.Unlock()
		s.notify()
	}()
	return s.hydration
}

// Hydration returns the store's hydration signal.
func (s *Store) Hydration() *persist.Hydration {
	return s.hydration
}

// State returns a consistent snapshot of the session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

// IsAuthenticated reports whether a user and token are both present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// Token returns the current bearer token. Satisfies the API client's
// TokenProvider interface.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Role returns the current user's role, or "" when logged out.
func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// Login stores the session. A nil user or empty token makes Login a
// no-op: a partially-authenticated state must never exist.
func (s *Store) Login(ctx context.Context, user *User, token string) error {
	if user == nil || token == "" {
		return nil
	}

	u := *user
	s.mu.Lock()
	s.user = &u
	s.token = token
	s.mu.Unlock()

	err := s.save(ctx)
	s.notify()
	return err
}

// Logout clears user and token atomically and removes the persisted
// blob.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	err := s.storage.Delete(ctx, persist.AuthKey)
	s.notify()
	return err
}

// UpdateUser merges a partial patch into the current user. Without a
// current user the patch is dropped: a user cannot be materialized from
// a partial update.
func (s *Store) UpdateUser(ctx context.Context, patch UserPatch) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil
	}
	if patch.Email != nil {
		s.user.Email = *patch.Email
	}
	if patch.Name != nil {
		s.user.Name = *patch.Name
	}
	if patch.AvatarURL != nil {
		s.user.AvatarURL = *patch.AvatarURL
	}
	s.mu.Unlock()

	err := s.save(ctx)
	s.notify()
	return err
}

// OnChange registers a listener invoked with a state snapshot after
// every transition. Returns an unsubscribe function.
func (s *Store) OnChange(fn func(State)) func() {
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

func (s *Store) stateLocked() State {
	st := State{Token: s.token}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	st.IsAuthenticated = s.user != nil && s.token != ""
	return st
}

func (s *Store) save(ctx context.Context) error {
	s.mu.RLock()
	p := persisted{User: s.user, Token: s.token}
	s.mu.RUnlock()

	blob, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, persist.AuthKey, blob)
}

func (s *Store) notify() {
	s.mu.RLock()
	st := s.stateLocked()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(st)
	}
}

// tokenExpired parses the token as an unverified JWT and checks its
// expiry claim. Unparsable tokens are kept; not every backend token is
// a JWT.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
