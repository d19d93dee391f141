// Package envelope normalizes the heterogeneous response envelopes the
// backend returns into one canonical list shape.
//
// Different endpoints wrap their payloads differently: some return
// {"data": {"items": [...], "pagination": {...}}}, some
// {"data": {"data": [...]}}, some {"data": [...]}, and a few a bare
// array. [DecodeList] probes these shapes in order and produces a
// [List] with consistent Total, Page, Limit, and TotalPages fields.
//
// Decoding is pure and never fails. Every fallback branch taken is
// reported as a [Warning] so callers can distinguish a legitimately
// empty response from a malformed one:
//
//	list, warns := envelope.DecodeList[Course](raw, page, limit)
//	for _, w := range warns {
//	    log.Warn("envelope fallback", "path", w.Path, "reason", w.Reason)
//	}
//
// TotalPages is computed as ceil(total/limit) when the backend omits it;
// a non-positive limit yields zero total pages.
package envelope
