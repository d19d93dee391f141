// Package authstore holds the client's authenticated session: the
// current user, the bearer token, and a derived IsAuthenticated flag.
//
// The store persists under persist.AuthKey and rehydrates
// asynchronously; consumers (role guards, the API client) must wait for
// the hydration signal before trusting derived state. The
// authenticated flag is recomputed from user and token on every
// rehydration, never read back from storage, so partial writes
// or tampering cannot yield an inconsistent session.
//
// Transitions are reducer-style and guarded:
//
//   - Login with a nil user or empty token is a no-op;
//   - Logout clears user and token atomically;
//   - UpdateUser merges a partial patch only into an existing user.
package authstore
