package guard

import (
	"context"
	"slices"
	"sync"

	"github.com/edukit/edukit/pkg/persist"
)

// Known user roles, mirroring the backend's role field.
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleLearner    = "learner"
)

// State is the guard lifecycle. A guard decides exactly once, and only
// after the session store has hydrated.
type State int

const (
	// Pending means the session store has not hydrated yet. A guard
	// must never redirect in this state: the user may well be
	// authenticated, the answer just is not loaded yet.
	Pending State = iota

	// Allowed means the hydrated session passed the role check.
	Allowed

	// Denied means the hydrated session failed authentication or the
	// role check; a redirect has been issued.
	Denied
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a guard evaluation. Ready is false while
// hydration is pending; Redirect is non-empty only for denials.
type Decision struct {
	Redirect string
	Ready    bool
	Allowed  bool
}

// Session is the slice of the auth store a guard needs.
type Session interface {
	Hydration() *persist.Hydration
	IsAuthenticated() bool
	Role() string
}

// Navigator performs an imperative navigation that replaces the current
// history entry, so a denied page does not pile up in history.
type Navigator interface {
	Replace(route string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Replace(route string) { f(route) }

// RoleRoute maps a role to its default landing route. Every guard
// consumes this one table so denials land consistently.
func RoleRoute(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleInstructor:
		return "/instructor"
	default:
		return "/"
	}
}

// Evaluate is the pure guard decision. Never produces a redirect while
// hydration is pending, for any authentication/role combination. A
// denied user is sent to their own role's landing route (or the
// override), so an admin opening an instructor page lands on /admin
// rather than an error screen.
func Evaluate(hydrated, isAuthenticated bool, role string, allowedRoles []string, override string) Decision {
	if !hydrated {
		return Decision{}
	}

	if isAuthenticated && slices.Contains(allowedRoles, role) {
		return Decision{Ready: true, Allowed: true}
	}

	target := override
	if target == "" {
		if !isAuthenticated {
			role = ""
		}
		target = RoleRoute(role)
	}
	return Decision{Ready: true, Redirect: target}
}

// Guard gates one route subtree behind an allow-list of roles. It
// subscribes to the session's hydration signal once, decides once, and
// issues at most one navigation replace.
type Guard struct {
	session  Session
	nav      Navigator
	done     chan struct{}
	allowed  []string
	override string
	decision Decision
	state    State
	mu       sync.RWMutex
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithRedirect overrides the denial route.
func WithRedirect(route string) GuardOption {
	return func(g *Guard) {
		g.override = route
	}
}

// New creates a guard for the given allow-list. Call Start to arm it.
func New(session Session, nav Navigator, allowedRoles []string, opts ...GuardOption) *Guard {
	g := &Guard{
		session: session,
		nav:     nav,
		done:    make(chan struct{}),
		allowed: slices.Clone(allowedRoles),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start arms the guard: it waits for the session to hydrate, then
// transitions Pending to Allowed or Denied exactly once. Canceling ctx
// tears the guard down without ever redirecting. Returns a channel
// closed when the guard has decided or been torn down.
func (g *Guard) Start(ctx context.Context) <-chan struct{} {
	go func() {
		defer close(g.done)

		if err := g.session.Hydration().Wait(ctx); err != nil && ctx.Err() != nil {
			return // torn down before hydration; stay pending, no redirect
		}

		d := Evaluate(true, g.session.IsAuthenticated(), g.session.Role(), g.allowed, g.override)

		g.mu.Lock()
		g.decision = d
		if d.Allowed {
			g.state = Allowed
		} else {
			g.state = Denied
		}
		g.mu.Unlock()

		if !d.Allowed && g.nav != nil {
			g.nav.Replace(d.Redirect)
		}
	}()
	return g.done
}

// State returns the guard's current lifecycle state.
func (g *Guard) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Decision returns the guard's decision. Zero until the guard is ready.
func (g *Guard) Decision() Decision {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.decision
}
