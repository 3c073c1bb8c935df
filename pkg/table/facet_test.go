package table

import "testing"

func TestFacetCountsMultiValued(t *testing.T) {
	rows := []offerRow{
		{ID: "1", Tags: []string{"a", "b"}},
		{ID: "2", Tags: []string{"a"}},
		{ID: "3", Tags: []string{}},
	}
	col := Column[offerRow]{Key: "tags", MultiValued: true, Value: func(r offerRow) any { return r.Tags }}

	got := FacetCounts(rows, col)
	if got["a"] != 2 || got["b"] != 1 {
		t.Errorf("facets = %v, want a:2 b:1", got)
	}
	if len(got) != 2 {
		t.Errorf("unexpected extra facet entries: %v", got)
	}
}

func TestFacetCountsSingleValued(t *testing.T) {
	rows := []offerRow{
		{ID: "1", Name: "x"},
		{ID: "2", Name: "x"},
		{ID: "3", Name: "y"},
	}
	col := Column[offerRow]{Key: "name", Value: func(r offerRow) any { return r.Name }}

	got := FacetCounts(rows, col)
	if got["x"] != 2 || got["y"] != 1 {
		t.Errorf("facets = %v, want x:2 y:1", got)
	}
}

func TestFacetCountsSingleValuedListIsNotFlattened(t *testing.T) {
	// Without the MultiValued attribute, a list value counts once per row.
	rows := []offerRow{
		{ID: "1", Tags: []string{"a", "b"}},
		{ID: "2", Tags: []string{"a", "b"}},
	}
	col := Column[offerRow]{Key: "tags", Value: func(r offerRow) any { return r.Tags }}

	got := FacetCounts(rows, col)
	if got["a, b"] != 2 {
		t.Errorf("facets = %v, want the joined value counted per row", got)
	}
}
