package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/offerdeck/offerdeck/pkg/cache"
	"github.com/offerdeck/offerdeck/pkg/offers"
	"github.com/offerdeck/offerdeck/pkg/table"
)

var (
	listHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	listCellStyle = lipgloss.NewStyle().
			PaddingRight(2)

	listStaleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Italic(true)

	listMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	listFacetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("32"))
)

// ListCommand creates the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List offers from the service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "Filter by offer name",
			},
			&cli.StringFlag{
				Name:  "position",
				Usage: "Filter by position",
			},
			&cli.StringFlag{
				Name:  "salary",
				Usage: "Filter by salary",
			},
			&cli.StringSliceFlag{
				Name:  "status",
				Usage: "Filter by status (PENDING, ACCEPTED, REJECTED). Can be used multiple times",
			},
			&cli.StringFlag{
				Name:  "created-from",
				Usage: "Only offers created on or after this date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "created-to",
				Usage: "Only offers created on or before this date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Column key to sort by",
			},
			&cli.BoolFlag{
				Name:  "desc",
				Usage: "Sort descending",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page to show (1-based)",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Rows per page (0 uses the configured default)",
			},
			&cli.StringSliceFlag{
				Name:  "columns",
				Usage: "Column keys to show. Defaults to the standard visible set",
			},
			&cli.BoolFlag{
				Name:  "facets",
				Usage: "Show value counts for the loaded page",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Do not fall back to cached data when the service is unreachable",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return listOffers(ctx, c)
		},
	}
}

func listOffers(ctx context.Context, c *cli.Command) error {
	app, err := setupApp(ctx, c)
	if err != nil {
		return err
	}

	filters, err := filtersFromFlags(c)
	if err != nil {
		return err
	}

	pageSize := c.Int("page-size")
	if pageSize <= 0 {
		pageSize = app.cfg.PageSize
	}
	pageIndex := c.Int("page") - 1
	if pageIndex < 0 {
		return fmt.Errorf("--page is 1-based")
	}

	var sortBy *table.Sort
	if key := c.String("sort"); key != "" {
		sortBy = &table.Sort{Key: key, Desc: c.Bool("desc")}
	}

	pagination := table.Pagination{Index: pageIndex, Size: pageSize}
	query := table.BuildQuery(pagination, filters, sortBy, offers.SortFieldMap())
	path := app.offersPath()

	stale := false
	var fetchedAt time.Time
	page, err := app.client.ListOffers(ctx, path, query)
	if err != nil {
		if c.Bool("no-cache") {
			return err
		}
		snaps, openErr := cache.Open(filepath.Join(app.cfg.CacheDir, "snapshots.db"))
		if openErr != nil {
			return err
		}
		defer func() {
			if err := snaps.Close(); err != nil {
				fmt.Printf("Warning: failed to close snapshot cache: %v\n", err)
			}
		}()
		cached, when, cacheErr := snaps.Get(path, query)
		if cacheErr != nil || cached == nil {
			return err
		}
		page, fetchedAt, stale = cached, when, true
	} else if !c.Bool("no-cache") {
		snaps, openErr := cache.Open(filepath.Join(app.cfg.CacheDir, "snapshots.db"))
		if openErr == nil {
			if err := snaps.Put(path, query, page); err != nil {
				fmt.Printf("Warning: failed to cache snapshot: %v\n", err)
			}
			if err := snaps.Close(); err != nil {
				fmt.Printf("Warning: failed to close snapshot cache: %v\n", err)
			}
		}
	}

	if stale {
		fmt.Println(listStaleStyle.Render(fmt.Sprintf(
			"Service unreachable; showing cached data from %s", fetchedAt.Local().Format("Jan 2 15:04"))))
	}

	columns := visibleColumns(c.StringSlice("columns"))
	printOffersTable(columns, page.Rows)
	printListFooter(page.Meta, len(page.Rows))

	if c.Bool("facets") {
		printFacets(columns, page.Rows)
	}
	return nil
}

// filtersFromFlags builds the filter set the same way the dashboard does:
// empty values stay absent, repeated statuses become one multi-select.
func filtersFromFlags(c *cli.Command) (table.Filters, error) {
	var filters table.Filters
	for _, key := range []string{"name", "position", "salary"} {
		if v := c.String(key); v != "" {
			filters = filters.With(key, table.Text(v))
		}
	}
	if statuses := c.StringSlice("status"); len(statuses) > 0 {
		for _, s := range statuses {
			if !validStatus(s) {
				return nil, fmt.Errorf("unknown status %q", s)
			}
		}
		filters = filters.With("status", table.MultiSelect(statuses))
	}

	var created table.DateRange
	if v := c.String("created-from"); v != "" {
		t, err := time.Parse(table.DateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("parsing --created-from: %w", err)
		}
		created.From = t
	}
	if v := c.String("created-to"); v != "" {
		t, err := time.Parse(table.DateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("parsing --created-to: %w", err)
		}
		created.To = t
	}
	if !created.Empty() {
		filters = filters.With("createdAt", created)
	}
	return filters, nil
}

func validStatus(s string) bool {
	for _, st := range offers.Statuses() {
		if string(st) == s {
			return true
		}
	}
	return false
}

// visibleColumns resolves the column set: an explicit --columns list wins,
// otherwise the default visible columns.
func visibleColumns(keys []string) []table.Column[offers.Offer] {
	all := offers.Columns()
	if len(keys) == 0 {
		visible := make([]table.Column[offers.Offer], 0, len(all))
		for _, col := range all {
			if !col.DefaultHidden {
				visible = append(visible, col)
			}
		}
		return visible
	}

	byKey := make(map[string]table.Column[offers.Offer], len(all))
	for _, col := range all {
		byKey[col.Key] = col
	}
	visible := make([]table.Column[offers.Offer], 0, len(keys))
	for _, key := range keys {
		if col, ok := byKey[key]; ok {
			visible = append(visible, col)
		}
	}
	return visible
}

func printOffersTable(columns []table.Column[offers.Offer], rows []offers.Offer) {
	widths := make([]int, len(columns))
	cells := make([][]string, len(rows))
	for i, col := range columns {
		widths[i] = len(col.Title)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			text := table.CopyText(colValue(col, row))
			if col.Render != nil {
				text = col.Render(row)
			}
			cells[r][i] = text
			if len(text) > widths[i] {
				widths[i] = len(text)
			}
		}
	}

	var header strings.Builder
	for i, col := range columns {
		header.WriteString(listHeaderStyle.Render(pad(col.Title, widths[i])))
		header.WriteString("  ")
	}
	fmt.Println(header.String())

	if len(rows) == 0 {
		fmt.Println(listMetaStyle.Render("No offers found"))
		return
	}
	for _, row := range cells {
		var line strings.Builder
		for i, cell := range row {
			line.WriteString(listCellStyle.Render(pad(cell, widths[i])))
		}
		fmt.Println(line.String())
	}
}

func colValue(col table.Column[offers.Offer], row offers.Offer) any {
	if col.Value != nil {
		return col.Value(row)
	}
	return nil
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func printListFooter(meta table.Metadata, shown int) {
	fmt.Println()
	fmt.Println(listMetaStyle.Render(fmt.Sprintf(
		"Page %d of %d  (%d of %d offers)", meta.Page, meta.TotalPages, shown, meta.TotalDocs)))
}

// printFacets shows value counts computed over the loaded page only, for
// the columns backed by a checkbox filter; it never implies totals beyond
// what the server returned.
func printFacets(columns []table.Column[offers.Offer], rows []offers.Offer) {
	titler := cases.Title(language.English)
	fields := offers.FilterFields()
	fmt.Println()
	for _, col := range columns {
		if field, ok := fields.ByKey(col.Key); !ok || field.Kind != table.KindCheckbox {
			continue
		}
		counts := table.FacetCounts(rows, col)
		if len(counts) == 0 {
			continue
		}
		values := make([]string, 0, len(counts))
		for v := range counts {
			values = append(values, v)
		}
		sort.Strings(values)

		parts := make([]string, 0, len(values))
		for _, v := range values {
			label := v
			if col.Key == "status" {
				label = titler.String(strings.ToLower(v))
			}
			parts = append(parts, fmt.Sprintf("%s: %d", label, counts[v]))
		}
		fmt.Printf("%s  %s\n", listHeaderStyle.Render(col.Title), listFacetStyle.Render(strings.Join(parts, "  ")))
	}
}
