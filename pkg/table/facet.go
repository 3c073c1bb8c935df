package table

import (
	"fmt"
	"reflect"
)

// FacetCounts computes, per distinct value of the column, how many of the
// loaded rows carry that value. For columns declared MultiValued the count
// is one occurrence per distinct list element across all rows rather than
// one per row, so a row tagged ["a","b"] contributes to both "a" and "b".
//
// Only the rows currently loaded are counted; the server remains the
// authority on the full result set.
func FacetCounts[T any](rows []T, col Column[T]) map[string]int {
	counts := make(map[string]int)
	if col.Value == nil {
		return counts
	}

	for _, row := range rows {
		v := col.Value(row)
		if v == nil {
			continue
		}
		if col.MultiValued {
			for _, el := range listElements(v) {
				counts[el]++
			}
			continue
		}
		counts[CopyText(v)]++
	}
	return counts
}

func listElements(v any) []string {
	if ss, ok := v.([]string); ok {
		return ss
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		// Not actually a list; treat the scalar as a single element.
		return []string{fmt.Sprint(v)}
	}
	out := make([]string, 0, rv.Len())
	for i := range rv.Len() {
		out = append(out, CopyText(rv.Index(i).Interface()))
	}
	return out
}
