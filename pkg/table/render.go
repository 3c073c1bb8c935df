package table

// SortDir is the sort indicator shown on a header cell.
type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

// HeaderCell is one rendered column header.
type HeaderCell struct {
	Key      string
	Title    string
	Sortable bool
	Dir      SortDir
}

// Cell is one rendered table cell. Text is the display form; Copy is what
// a cell click places on the clipboard.
type Cell struct {
	Key  string
	Text string
	Copy string
}

// Row is one rendered table row. ID is the stable row identity used to
// open the detail view and to track selection.
type Row struct {
	ID       string
	Selected bool
	Cells    []Cell
}

// Grid is the fully derived view of the table: visible headers with sort
// indicators, one row per loaded data item, selection state and the
// current metadata. The grid never re-filters, re-sorts or re-pages; rows
// appear exactly as the server returned them.
type Grid struct {
	Headers     []HeaderCell
	Rows        []Row
	AllSelected bool
	Meta        Metadata
	Loading     bool
}

// Grid derives the current rendered view from the loaded rows, the column
// definitions and the table state.
func (c *Controller[T]) Grid() Grid {
	visibility := c.state.Visibility()
	sort := c.state.Sort()

	visible := make([]Column[T], 0, len(c.columns))
	for _, col := range c.columns {
		if show, ok := visibility[col.Key]; ok {
			if !show {
				continue
			}
		} else if col.DefaultHidden {
			continue
		}
		visible = append(visible, col)
	}

	headers := make([]HeaderCell, len(visible))
	for i, col := range visible {
		dir := SortNone
		if sort != nil && sort.Key == col.Key {
			if sort.Desc {
				dir = SortDesc
			} else {
				dir = SortAsc
			}
		}
		headers[i] = HeaderCell{Key: col.Key, Title: col.Title, Sortable: col.Sortable, Dir: dir}
	}

	c.mu.Lock()
	rows := make([]Row, len(c.rows))
	allSelected := len(c.rows) > 0
	for i, item := range c.rows {
		id := c.rowID(item)
		selected := c.selected[id]
		if !selected {
			allSelected = false
		}
		cells := make([]Cell, len(visible))
		for j, col := range visible {
			cells[j] = Cell{
				Key:  col.Key,
				Text: col.render(item),
				Copy: CopyText(col.rawValue(item)),
			}
		}
		rows[i] = Row{ID: id, Selected: selected, Cells: cells}
	}
	meta := c.meta
	c.mu.Unlock()

	return Grid{
		Headers:     headers,
		Rows:        rows,
		AllSelected: allSelected,
		Meta:        meta,
		Loading:     c.Loading(),
	}
}
