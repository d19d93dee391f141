package validate

import (
	"sort"
	"strings"
)

// Errors collects field-level validation messages keyed by field name.
// A nil or empty Errors means validation passed.
type Errors map[string][]string

// Add appends a message for the given field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether the field has at least one message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Get returns the first message for the field, or "" if none.
func (e Errors) Get(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Valid reports whether no messages were recorded.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Error implements the error interface. Fields are sorted for stable output.
func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}

	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(strings.Join(e[f], ", "))
	}
	return b.String()
}
