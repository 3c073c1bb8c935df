package table

import (
	"context"
	"testing"
)

func gridController(t *testing.T) (*Controller[offerRow], *recordingSource) {
	t.Helper()
	src := &recordingSource{page: page(Metadata{Page: 1, TotalDocs: 2},
		offerRow{ID: "a", Name: "Alpha", Tags: []string{"eu", "us"}},
		offerRow{ID: "b", Name: "Beta", Tags: []string{"eu"}},
	)}
	ctrl := newTestController(t, src, 0)
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	return ctrl, src
}

func TestGridRendersServerOrder(t *testing.T) {
	ctrl, _ := gridController(t)

	grid := ctrl.Grid()
	if len(grid.Headers) != 2 {
		t.Fatalf("headers = %+v, want name and tags", grid.Headers)
	}
	if len(grid.Rows) != 2 || grid.Rows[0].ID != "a" || grid.Rows[1].ID != "b" {
		t.Fatalf("rows out of server order: %+v", grid.Rows)
	}
	if got := grid.Rows[0].Cells[0].Text; got != "Alpha" {
		t.Errorf("cell text = %q", got)
	}
	if got := grid.Rows[0].Cells[1].Copy; got != "eu, us" {
		t.Errorf("list cell copy = %q, want comma-joined", got)
	}
	if grid.Meta.TotalDocs != 2 {
		t.Errorf("metadata missing from grid: %+v", grid.Meta)
	}
}

func TestGridSortIndicator(t *testing.T) {
	ctrl, _ := gridController(t)

	ctrl.State().CycleSort("name")
	grid := ctrl.Grid()
	if grid.Headers[0].Dir != SortAsc {
		t.Errorf("dir = %v, want ascending", grid.Headers[0].Dir)
	}

	ctrl.State().CycleSort("name")
	if got := ctrl.Grid().Headers[0].Dir; got != SortDesc {
		t.Errorf("dir = %v, want descending", got)
	}

	ctrl.State().CycleSort("name")
	if got := ctrl.Grid().Headers[0].Dir; got != SortNone {
		t.Errorf("dir = %v, want none", got)
	}
}

func TestGridVisibility(t *testing.T) {
	ctrl, _ := gridController(t)

	ctrl.State().SetVisible("tags", false)
	grid := ctrl.Grid()
	if len(grid.Headers) != 1 || grid.Headers[0].Key != "name" {
		t.Fatalf("hidden column still rendered: %+v", grid.Headers)
	}
	if len(grid.Rows[0].Cells) != 1 {
		t.Errorf("row cells should match visible columns: %+v", grid.Rows[0].Cells)
	}

	ctrl.State().SetVisible("tags", true)
	if got := len(ctrl.Grid().Headers); got != 2 {
		t.Errorf("re-shown column missing, headers = %d", got)
	}
}

func TestGridSelectionFlags(t *testing.T) {
	ctrl, _ := gridController(t)

	ctrl.Select("a", true)
	grid := ctrl.Grid()
	if !grid.Rows[0].Selected || grid.Rows[1].Selected {
		t.Fatalf("selection flags wrong: %+v", grid.Rows)
	}
	if grid.AllSelected {
		t.Error("AllSelected should be false with one row selected")
	}

	ctrl.SelectAllPage(true)
	if !ctrl.Grid().AllSelected {
		t.Error("AllSelected should be true after selecting the page")
	}
}
