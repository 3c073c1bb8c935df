package table

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the wire format for date bounds.
const DateLayout = "2006-01-02"

// rangeDelimiter separates the two bounds of a DateRange in URL state.
const rangeDelimiter = ".."

// multiDelimiter separates MultiSelect members in URL state and in server
// query parameters.
const multiDelimiter = ","

// Value is the tagged union of filter value shapes. Exactly three variants
// exist: Text, MultiSelect and DateRange. A Value whose Empty method
// reports true is never stored in a filter set.
type Value interface {
	// Empty reports whether the value carries no constraint.
	Empty() bool
	sealedValue()
}

// Text is a free-text filter value, sent to the server as-is.
type Text string

func (t Text) Empty() bool { return t == "" }
func (Text) sealedValue()  {}

// MultiSelect is a set of selected option values. Membership is a set over
// the option value strings; order is insertion order.
type MultiSelect []string

func (m MultiSelect) Empty() bool { return len(m) == 0 }
func (MultiSelect) sealedValue()  {}

// Has reports whether v is a member of the selection.
func (m MultiSelect) Has(v string) bool {
	return slices.Contains(m, v)
}

// Toggle returns a new selection with v's membership flipped.
func (m MultiSelect) Toggle(v string) MultiSelect {
	if m.Has(v) {
		out := make(MultiSelect, 0, len(m)-1)
		for _, x := range m {
			if x != v {
				out = append(out, x)
			}
		}
		return out
	}
	out := make(MultiSelect, len(m), len(m)+1)
	copy(out, m)
	return append(out, v)
}

func (m MultiSelect) join() string {
	return strings.Join(m, multiDelimiter)
}

// DateRange filters a time field to [From, To]. Either bound may be zero,
// meaning unbounded on that side.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (d DateRange) Empty() bool { return d.From.IsZero() && d.To.IsZero() }
func (DateRange) sealedValue()  {}

// encodeValue renders a Value as its single URL-state token.
func encodeValue(v Value) string {
	switch t := v.(type) {
	case Text:
		return string(t)
	case MultiSelect:
		return t.join()
	case DateRange:
		var from, to string
		if !t.From.IsZero() {
			from = t.From.Format(DateLayout)
		}
		if !t.To.IsZero() {
			to = t.To.Format(DateLayout)
		}
		return from + rangeDelimiter + to
	default:
		return ""
	}
}

// decodeValue parses a URL-state token back into the Value variant declared
// for the field. Unparseable tokens yield an empty value, which callers
// treat as "no filter".
func decodeValue(f Field, raw string) Value {
	switch f.Kind {
	case KindText:
		return Text(raw)
	case KindCheckbox:
		if raw == "" {
			return MultiSelect(nil)
		}
		parts := strings.Split(raw, multiDelimiter)
		out := make(MultiSelect, 0, len(parts))
		for _, p := range parts {
			if p != "" && !out.Has(p) {
				out = append(out, p)
			}
		}
		return out
	case KindTimeRange:
		from, to, ok := strings.Cut(raw, rangeDelimiter)
		if !ok {
			// A bare date is an exact-day range.
			from, to = raw, raw
		}
		var r DateRange
		if from != "" {
			if t, err := time.Parse(DateLayout, from); err == nil {
				r.From = t
			}
		}
		if to != "" {
			if t, err := time.Parse(DateLayout, to); err == nil {
				r.To = t
			}
		}
		return r
	default:
		return Text("")
	}
}
