package table

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Column declares one table column for row type T.
type Column[T any] struct {
	// Key identifies the column; it matches the filter field key when the
	// column is filterable.
	Key string
	// Title is the header label.
	Title string
	// Sortable enables the click-to-sort affordance on the header.
	Sortable bool
	// DefaultHidden hides the column unless a visibility override shows it.
	DefaultHidden bool
	// MultiValued marks columns whose value is a list (e.g. tags or
	// regions). Faceted counts for such columns count one occurrence per
	// distinct list element, not one per row.
	MultiValued bool
	// Value extracts the raw cell value, used for copy text and faceting.
	Value func(T) any
	// Render produces the display text. When nil, CopyText of the raw
	// value is used.
	Render func(T) string
}

func (c Column[T]) render(row T) string {
	if c.Render != nil {
		return c.Render(row)
	}
	if c.Value != nil {
		return CopyText(c.Value(row))
	}
	return ""
}

func (c Column[T]) rawValue(row T) any {
	if c.Value == nil {
		return nil
	}
	return c.Value(row)
}

// CopyText renders a cell value as the text placed on the clipboard when
// the cell is clicked. List values are comma-joined; struct or map values
// exposing a "value" member copy that member; any other structured value
// falls back to its JSON form.
func CopyText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range rv.Len() {
			parts[i] = CopyText(rv.Index(i).Interface())
		}
		return strings.Join(parts, ", ")
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			mv := rv.MapIndex(reflect.ValueOf("value"))
			if mv.IsValid() {
				return CopyText(mv.Interface())
			}
		}
	case reflect.Struct:
		if fv := rv.FieldByName("Value"); fv.IsValid() {
			return CopyText(fv.Interface())
		}
	}

	if data, err := json.Marshal(rv.Interface()); err == nil && rv.Kind() != reflect.String {
		switch rv.Kind() {
		case reflect.Map, reflect.Struct:
			return string(data)
		}
	}
	return fmt.Sprint(rv.Interface())
}
