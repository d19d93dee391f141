package envelope

import (
	"encoding/json"
	"fmt"
)

// List is the canonical shape every paginated backend response is
// normalized into, regardless of the envelope the endpoint used.
type List[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Warning describes a fallback branch taken during decoding. Decoding
// never fails; warnings let callers log malformed envelopes instead of
// silently accepting defaults.
type Warning struct {
	Path   string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Reason)
}

// pagination mirrors the backend's optional pagination block. Pointer
// fields distinguish "absent" from zero.
type pagination struct {
	TotalItems  *int `json:"totalItems"`
	CurrentPage *int `json:"currentPage"`
	TotalPage   *int `json:"totalPage"`
}

// DecodeList normalizes an arbitrary backend list envelope into the
// canonical List shape. Supported envelopes, probed in order:
//
//	{"items": [...], "pagination": {...}}
//	{"data": {"items": [...], "pagination": {...}}}
//	{"data": {"data": [...]}}
//	{"data": [...]}
//	[...]
//
// page and limit are the values the caller requested; they backfill
// fields the envelope omits. Missing or malformed fields degrade to
// defaults and are reported as warnings, never as errors.
func DecodeList[T any](raw json.RawMessage, page, limit int) (List[T], []Warning) {
	var warns []Warning

	items, pg, w := probeItems(raw)
	warns = append(warns, w...)

	var data []T
	if len(items) > 0 && !isNull(items) {
		if err := json.Unmarshal(items, &data); err != nil {
			warns = append(warns, Warning{Path: "data", Reason: "items not decodable: " + err.Error()})
			data = nil
		}
	}
	if data == nil {
		data = []T{}
	}

	out := List[T]{Data: data, Limit: limit}

	if pg != nil && pg.TotalItems != nil {
		out.Total = *pg.TotalItems
	} else {
		if pg != nil {
			warns = append(warns, Warning{Path: "pagination.totalItems", Reason: "missing, using item count"})
		}
		out.Total = len(data)
	}

	if pg != nil && pg.CurrentPage != nil {
		out.Page = *pg.CurrentPage
	} else {
		out.Page = page
	}
	if out.Page < 1 {
		out.Page = 1
	}

	if pg != nil && pg.TotalPage != nil {
		out.TotalPages = *pg.TotalPage
	} else {
		out.TotalPages = ceilDiv(out.Total, limit)
	}

	if limit > 0 && len(out.Data) > limit {
		warns = append(warns, Warning{Path: "data", Reason: fmt.Sprintf("got %d items for limit %d, truncating", len(out.Data), limit)})
		out.Data = out.Data[:limit]
	}

	return out, warns
}

// DecodeOne normalizes a detail envelope into a single value. Probed in
// order: {"data": {"data": {...}}}, {"data": {...}}, bare object.
func DecodeOne[T any](raw json.RawMessage) (T, []Warning) {
	var zero T
	var warns []Warning

	body := raw
	if isObject(body) {
		var outer struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &outer); err == nil && len(outer.Data) > 0 && !isNull(outer.Data) {
			body = outer.Data
			if isObject(body) {
				var inner struct {
					Data json.RawMessage `json:"data"`
				}
				if err := json.Unmarshal(body, &inner); err == nil && isObject(inner.Data) {
					body = inner.Data
				}
			}
		}
	}

	if len(body) == 0 || isNull(body) {
		warns = append(warns, Warning{Path: "data", Reason: "empty envelope"})
		return zero, warns
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		warns = append(warns, Warning{Path: "data", Reason: "not decodable: " + err.Error()})
		return zero, warns
	}
	return v, warns
}

// probeItems locates the item array and pagination block inside the
// envelope. Returns a nil items slice when no array was found.
func probeItems(raw json.RawMessage) (json.RawMessage, *pagination, []Warning) {
	if isArray(raw) {
		return raw, nil, nil
	}
	if !isObject(raw) {
		if len(raw) > 0 && !isNull(raw) {
			return nil, nil, []Warning{{Path: "$", Reason: "envelope is neither object nor array"}}
		}
		return nil, nil, nil
	}

	var outer struct {
		Items      json.RawMessage `json:"items"`
		Data       json.RawMessage `json:"data"`
		Pagination *pagination     `json:"pagination"`
	}
	if err := json.Unmarshal(raw, &outer); err != nil {
		return nil, nil, []Warning{{Path: "$", Reason: "envelope not decodable"}}
	}

	// {"items": [...], "pagination": {...}}, the outer data wrapper
	// already peeled by the HTTP client.
	if isArray(outer.Items) {
		return outer.Items, outer.Pagination, nil
	}

	if len(outer.Data) == 0 || isNull(outer.Data) {
		return nil, nil, []Warning{{Path: "data", Reason: "missing item container"}}
	}

	// {"data": [...]}
	if isArray(outer.Data) {
		return outer.Data, outer.Pagination, nil
	}
	if !isObject(outer.Data) {
		return nil, nil, []Warning{{Path: "data", Reason: "item container not decodable"}}
	}

	var inner struct {
		Items      json.RawMessage `json:"items"`
		Data       json.RawMessage `json:"data"`
		Pagination *pagination     `json:"pagination"`
	}
	if err := json.Unmarshal(outer.Data, &inner); err != nil {
		return nil, nil, []Warning{{Path: "data", Reason: "item container not decodable"}}
	}
	pg := inner.Pagination
	if pg == nil {
		pg = outer.Pagination
	}

	// {"data": {"items": [...], "pagination": {...}}}
	if isArray(inner.Items) {
		return inner.Items, pg, nil
	}
	// {"data": {"data": [...]}}
	if isArray(inner.Data) {
		return inner.Data, pg, nil
	}

	return nil, pg, []Warning{{Path: "data", Reason: "no item array found"}}
}

// ceilDiv computes ceil(total/limit), guarding division by zero:
// limit <= 0 yields 0.
func ceilDiv(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

func isArray(raw json.RawMessage) bool  { return firstByte(raw) == '[' }
func isObject(raw json.RawMessage) bool { return firstByte(raw) == '{' }

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
