package table

import (
	"testing"
)

func TestBuildQueryPagination(t *testing.T) {
	// pageIndex is zero-based internally, the server page is 1-based.
	q := BuildQuery(Pagination{Index: 2, Size: 10}, nil, nil, nil)
	if got := q.Get("page"); got != "3" {
		t.Errorf("page = %q, want 3", got)
	}
	if got := q.Get("limit"); got != "10" {
		t.Errorf("limit = %q, want 10", got)
	}
	if q.Has("sortBy") || q.Has("sortOrder") {
		t.Error("no sort params expected without a sort spec")
	}
}

func TestBuildQueryFilterVariants(t *testing.T) {
	filters := Filters{}.
		With("name", Text("alice")).
		With("status", MultiSelect{"PENDING", "ACCEPTED"}).
		With("createdAt", DateRange{
			From: mustParseDate("2024-01-01"),
			To:   mustParseDate("2024-06-30"),
		})

	q := BuildQuery(Pagination{Index: 0, Size: 20}, filters, nil, nil)

	if got := q.Get("name"); got != "alice" {
		t.Errorf("name = %q", got)
	}
	if got := q.Get("status"); got != "PENDING,ACCEPTED" {
		t.Errorf("status = %q, want joined selection", got)
	}
	if got := q.Get("createdAtFrom"); got != "2024-01-01" {
		t.Errorf("createdAtFrom = %q", got)
	}
	if got := q.Get("createdAtTo"); got != "2024-06-30" {
		t.Errorf("createdAtTo = %q", got)
	}
	if q.Has("createdAt") {
		t.Error("date range must be split into bounds, not sent whole")
	}
}

func TestBuildQuerySortRemap(t *testing.T) {
	remap := map[string]string{"originAmountDetails": "originAmount"}

	q := BuildQuery(Pagination{Size: 10}, nil, &Sort{Key: "originAmountDetails", Desc: true}, remap)
	if got := q.Get("sortBy"); got != "originAmount" {
		t.Errorf("sortBy = %q, want remapped field", got)
	}
	if got := q.Get("sortOrder"); got != "desc" {
		t.Errorf("sortOrder = %q, want desc", got)
	}

	// Fields without a remap entry pass through unchanged.
	q = BuildQuery(Pagination{Size: 10}, nil, &Sort{Key: "salary"}, remap)
	if got := q.Get("sortBy"); got != "salary" {
		t.Errorf("sortBy = %q, want salary", got)
	}
	if got := q.Get("sortOrder"); got != "asc" {
		t.Errorf("sortOrder = %q, want asc", got)
	}
}
