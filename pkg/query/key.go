package query

import (
	"net/url"
	"sort"
	"strings"
)

// Resource names one backend collection (courses, vouchers, orders...).
// It is the invalidation unit: invalidating a resource touches every
// cached key for that resource, across all filter combinations.
type Resource string

// Key identifies one cached query result: a resource plus the
// normalized filter parameters the list was fetched with.
type Key struct {
	Params   map[string]string
	Resource Resource
}

// NewKey builds a key from a resource and filter parameters. Empty
// parameter values are dropped during canonicalization, so a filter
// with an unset field produces the same key as one without the field.
func NewKey(resource Resource, params map[string]string) Key {
	canonical := make(map[string]string, len(params))
	for k, v := range params {
		if k == "" || v == "" {
			continue
		}
		canonical[k] = v
	}
	return Key{Resource: resource, Params: canonical}
}

// DetailKey builds the key for a single addressable entity.
func DetailKey(resource Resource, id string) Key {
	return NewKey(resource, map[string]string{"id": id})
}

// String renders the canonical cache key. Parameters are sorted, so
// structurally equal keys always render identically. The resource name
// is terminated with "?" to make prefix invalidation unambiguous
// ("course?" never matches "courses?...").
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(string(k.Resource))
	b.WriteByte('?')

	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(k.Params[name]))
	}
	return b.String()
}

// Values renders the canonical parameters as a URL query, for handing
// the key's filters straight to an HTTP client.
func (k Key) Values() url.Values {
	v := make(url.Values, len(k.Params))
	for name, val := range k.Params {
		v.Set(name, val)
	}
	return v
}

// prefix returns the string every key of the resource starts with.
func (r Resource) prefix() string {
	return string(r) + "?"
}
