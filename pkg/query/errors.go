package query

import "errors"

// Sentinel errors for query operations.
var (
	// ErrDisabled is returned when a fetch is attempted with an
	// incomplete key (Enabled=false). No request is issued.
	ErrDisabled = errors.New("query: fetch disabled")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("query: store closed")

	// ErrUnknownResource is returned when the invalidation graph does
	// not cover every declared resource.
	ErrUnknownResource = errors.New("query: resource missing from invalidation graph")
)
