// Package cartstore is the persisted shopping cart: course lines added
// before checkout, surviving reloads under persist.CartKey.
package cartstore
