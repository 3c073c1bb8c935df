package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/offerdeck/offerdeck/pkg/table"
)

func sampleGrid() table.Grid {
	return table.Grid{
		Headers: []table.HeaderCell{
			{Key: "name", Title: "Name", Sortable: true, Dir: table.SortAsc},
			{Key: "status", Title: "Status", Sortable: true},
		},
		Rows: []table.Row{
			{ID: "o1", Cells: []table.Cell{
				{Key: "name", Text: "Backend role", Copy: "Backend role"},
				{Key: "status", Text: "PENDING", Copy: "PENDING"},
			}},
		},
		Meta: table.Metadata{TotalDocs: 1, Page: 1, TotalPages: 1},
	}
}

func TestRenderTableFragment(t *testing.T) {
	view := NewTableView()
	html, err := view.RenderTable(PageData{Grid: sampleGrid()})
	if err != nil {
		t.Fatalf("RenderTable: %v", err)
	}
	out := string(html)

	for _, want := range []string{
		`data-id="o1"`,
		`data-copy="Backend role"`,
		"sort-ind",
		"badge badge-pending",
		"Pending",
		"1 offers",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("fragment missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableEmptyState(t *testing.T) {
	view := NewTableView()
	grid := sampleGrid()
	grid.Rows = nil
	grid.Meta = table.Metadata{}
	html, err := view.RenderTable(PageData{Grid: grid})
	if err != nil {
		t.Fatalf("RenderTable: %v", err)
	}
	if !strings.Contains(string(html), "No offers found") {
		t.Errorf("empty grid should render the empty row:\n%s", html)
	}
}

func TestRenderPage(t *testing.T) {
	view := NewTableView()
	data := PageData{
		Title:        "Offers",
		UserName:     "Ada Lovelace",
		UserRole:     "RECRUITER",
		CanCreate:    true,
		ControlsOpen: true,
		Controls: []FilterControl{
			{
				Field: table.Field{Label: "Name", Key: "name", Kind: table.KindText},
				Raw:   "backend",
			},
			{
				Field: table.Field{
					Label: "Status", Key: "status", Kind: table.KindCheckbox,
					Options: []table.Option{{Label: "PENDING", Value: "PENDING"}, {Label: "ACCEPTED", Value: "ACCEPTED"}},
				},
				Active: []string{"PENDING"},
				Facets: map[string]int{"PENDING": 3},
			},
			{
				Field: table.Field{Label: "Created", Key: "createdAt", Kind: table.KindTimeRange},
				From:  "2024-01-01",
			},
		},
		Grid:    sampleGrid(),
		Version: "0.3.0",
	}

	var buf bytes.Buffer
	if err := view.RenderPage(&buf, data); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Ada Lovelace",
		"Recruiter",
		`value="backend"`,
		`value="PENDING" checked`,
		"(3)",
		`name="createdAtFrom" value="2024-01-01"`,
		"New offer",
		"offerdeck 0.3.0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(out, "collapsed") {
		t.Error("controls should be open")
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(time.Time{}); got != "" {
		t.Errorf("zero time = %q", got)
	}
	if got := FormatTime(time.Now().Add(-30 * time.Second)); got != "just now" {
		t.Errorf("recent = %q", got)
	}
	old := time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC)
	if got := FormatTime(old); got != "Mar 14, 2020" {
		t.Errorf("old = %q", got)
	}
}
