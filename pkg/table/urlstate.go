package table

import "net/url"

// EncodeFilters mirrors the filter set into URL query-string state. Every
// declared field appears in the output; fields with no active filter are
// set to the empty string so they overwrite any stale parameter when the
// full record is pushed to the page URL. This is a one-way sync
// (state -> URL); DecodeFilters is only used once, at mount.
func EncodeFilters(fields Fields, filters Filters) url.Values {
	out := url.Values{}
	for _, f := range fields {
		v, ok := filters.Get(f.Key)
		if !ok {
			out.Set(f.Key, "")
			continue
		}
		out.Set(f.Key, encodeValue(v))
	}
	return out
}

// DecodeFilters reconstructs a filter set from URL query parameters,
// typically to seed initial state from a deep link. Parameters not
// matching a declared field are ignored; empty or unparseable values
// produce no entry.
func DecodeFilters(fields Fields, values url.Values) Filters {
	var out Filters
	for _, f := range fields {
		raw := values.Get(f.Key)
		if raw == "" {
			continue
		}
		v := decodeValue(f, raw)
		if v == nil || v.Empty() {
			continue
		}
		out = out.With(f.Key, v)
	}
	return out
}
