// Package locale handles locale-prefixed routing (/vi/..., /en/...)
// and the persisted locale preference.
//
// [Rewrite] redirects unprefixed paths to the default locale while
// preserving the query string; [Match] picks the best supported locale
// for an Accept-Language header.
package locale
