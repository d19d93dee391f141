package edukit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/edukit/edukit/pkg/apiclient"
	"github.com/edukit/edukit/pkg/authstore"
	"github.com/edukit/edukit/pkg/cartstore"
	"github.com/edukit/edukit/pkg/envelope"
	"github.com/edukit/edukit/pkg/events"
	"github.com/edukit/edukit/pkg/locale"
	"github.com/edukit/edukit/pkg/persist"
	"github.com/edukit/edukit/pkg/prefs"
	"github.com/edukit/edukit/pkg/query"
)

// Client wires the HTTP client, the shared query cache, and the
// persisted stores into one entry point. Construct it once per app
// session and share it; the cache and stores are safe for concurrent
// use.
type Client struct {
	api     *apiclient.Client
	queries *query.Store
	auth    *authstore.Store
	cart    *cartstore.Store
	locale  *locale.Store
	theme   *prefs.ThemeStore
	bus     *events.Bus
	log     *slog.Logger

	courses  *Collection[Course]
	chapters *Collection[Chapter]
	lectures *Collection[Lecture]
	quizzes  *Collection[Quiz]
	orders   *Collection[Order]
	vouchers *Collection[Voucher]
	comments *Collection[Comment]
	users    *Collection[User]
}

// New creates a client. The invalidation graph is validated against
// the declared resource list before anything else is wired.
func New(opts ...Option) (*Client, error) {
	o := defaultClientOptions()
	for _, opt := range opts {
		opt(o)
	}

	deps := DefaultDependencies()
	if err := query.ValidateDependencies(deps, Resources()); err != nil {
		return nil, err
	}

	c := &Client{
		auth:   authstore.New(o.storage, o.authOpts...),
		cart:   cartstore.New(o.storage),
		locale: locale.NewStore(o.storage),
		theme:  prefs.NewThemeStore(o.storage),
		bus:    events.NewBus(),
		log:    o.log,
	}

	c.api = apiclient.New(append([]apiclient.Option{
		apiclient.WithTokenProvider(c.auth),
	}, o.apiOpts...)...)

	c.queries = query.New(append([]query.Option{
		query.WithDependencies(deps),
		query.WithLogger(o.log),
	}, o.queryOpts...)...)

	c.courses = newCollection(c, ResourceCourses, "/courses", func(v Course) string { return v.ID })
	c.chapters = newCollection(c, ResourceChapters, "/chapters", func(v Chapter) string { return v.ID })
	c.lectures = newCollection(c, ResourceLectures, "/lectures", func(v Lecture) string { return v.ID })
	c.quizzes = newCollection(c, ResourceQuizzes, "/quizzes", func(v Quiz) string { return v.ID })
	c.orders = newCollection(c, ResourceOrders, "/orders", func(v Order) string { return v.ID })
	c.vouchers = newCollection(c, ResourceVouchers, "/vouchers", func(v Voucher) string { return v.ID })
	c.comments = newCollection(c, ResourceComments, "/comments", func(v Comment) string { return v.ID })
	c.users = newCollection(c, ResourceUsers, "/users", func(v User) string { return v.ID })

	return c, nil
}

// Hydrate loads every persisted store and waits for all of them. Call
// it once at startup, before rendering anything auth-dependent.
func (c *Client) Hydrate(ctx context.Context) error {
	hydrations := []*persist.Hydration{
		c.auth.Hydrate(ctx),
		c.cart.Hydrate(ctx),
		c.locale.Hydrate(ctx),
		c.theme.Hydrate(ctx),
	}
	for _, h := range hydrations {
		if err := h.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Typed resource bindings.

func (c *Client) Courses() *Collection[Course] { return c.courses }

func (c *Client) Chapters() *Collection[Chapter] { return c.chapters }

func (c *Client) Lectures() *Collection[Lecture] { return c.lectures }

func (c *Client) Quizzes() *Collection[Quiz] { return c.quizzes }

func (c *Client) Orders() *Collection[Order] { return c.orders }

func (c *Client) Vouchers() *Collection[Voucher] { return c.vouchers }

func (c *Client) Comments() *Collection[Comment] { return c.comments }

func (c *Client) Users() *Collection[User] { return c.users }

// Shared infrastructure, exposed for guards, controllers, and shells.

func (c *Client) API() *apiclient.Client { return c.api }

func (c *Client) Queries() *query.Store { return c.queries }

func (c *Client) Auth() *authstore.Store { return c.auth }

func (c *Client) Cart() *cartstore.Store { return c.cart }

func (c *Client) Locale() *locale.Store { return c.locale }

func (c *Client) Theme() *prefs.ThemeStore { return c.theme }

func (c *Client) Events() *events.Bus { return c.bus }

// ErrBadLoginResponse reports a login response missing the user or the
// token; the session is left untouched.
var ErrBadLoginResponse = errors.New("edukit: login response missing user or token")

// session is the login endpoint's payload.
type session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Login authenticates against the backend and establishes the session
// in the auth store.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	raw, err := c.api.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	sess, warnings := envelope.DecodeOne[session](raw)
	c.logWarnings(ctx, "auth", warnings)
	if sess.Token == "" || sess.User.ID == "" {
		return nil, ErrBadLoginResponse
	}

	if err := c.auth.Login(ctx, &sess.User, sess.Token); err != nil {
		return nil, err
	}
	return &sess.User, nil
}

// Logout clears the session and drops every cached query so another
// user signing in on the same client cannot see stale data.
func (c *Client) Logout(ctx context.Context) error {
	// Best effort; the server session may already be gone.
	_, _ = c.api.Post(ctx, "/auth/logout", nil)

	if err := c.auth.Logout(ctx); err != nil {
		return err
	}
	c.queries.Clear()
	return nil
}

// Close shuts the query store down. Fetches after Close fail with
// query.ErrClosed.
func (c *Client) Close() error {
	return c.queries.Close()
}

func (c *Client) logWarnings(ctx context.Context, resource query.Resource, warnings []envelope.Warning) {
	if c.log == nil {
		return
	}
	for _, w := range warnings {
		c.log.WarnContext(ctx, "envelope shape degraded",
			"resource", string(resource),
			"path", w.Path,
			"reason", w.Reason,
		)
	}
}
