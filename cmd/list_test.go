package cmd

import (
	"testing"

	"github.com/offerdeck/offerdeck/pkg/offers"
)

func TestVisibleColumnsDefaults(t *testing.T) {
	columns := visibleColumns(nil)
	if len(columns) == 0 {
		t.Fatal("expected default visible columns")
	}
	for _, col := range columns {
		if col.DefaultHidden {
			t.Errorf("column %q is hidden by default but was included", col.Key)
		}
	}
}

func TestVisibleColumnsExplicitSelection(t *testing.T) {
	columns := visibleColumns([]string{"createdAt", "name", "bogus"})
	if len(columns) != 2 {
		t.Fatalf("got %d columns, want 2 (unknown keys ignored)", len(columns))
	}
	if columns[0].Key != "createdAt" || columns[1].Key != "name" {
		t.Errorf("column order = %q, %q; explicit order should win", columns[0].Key, columns[1].Key)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range offers.Statuses() {
		if !validStatus(string(s)) {
			t.Errorf("%s should be valid", s)
		}
	}
	if validStatus("OPEN") {
		t.Error("OPEN should be rejected")
	}
}
