package table

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/offerdeck/offerdeck/pkg/log"
)

// Metadata is the pagination metadata returned by the server alongside a
// page of rows. The server is 1-based and authoritative; the zero value
// means "nothing loaded yet".
type Metadata struct {
	TotalDocs   int  `json:"totalDocs"`
	Limit       int  `json:"limit"`
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	NextPage    *int `json:"nextPage"`
	PrevPage    *int `json:"prevPage"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Page is one server-produced page of rows plus its metadata.
type Page[T any] struct {
	Rows []T
	Meta Metadata
}

// Source executes a server query built by BuildQuery and returns the
// resulting page. Implementations attach credentials and choose the
// concrete endpoint (e.g. per caller role); the controller never hardcodes
// either.
type Source[T any] interface {
	FetchPage(ctx context.Context, query url.Values) (*Page[T], error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func(ctx context.Context, query url.Values) (*Page[T], error)

func (f SourceFunc[T]) FetchPage(ctx context.Context, query url.Values) (*Page[T], error) {
	return f(ctx, query)
}

// Options configures a Controller.
type Options[T any] struct {
	// Fields declares the filterable fields.
	Fields Fields
	// Columns declares the table columns.
	Columns []Column[T]
	// RowID extracts a stable row identity, used for selection.
	RowID func(T) string
	// SortFieldMap remaps UI column keys to server sort field names.
	SortFieldMap map[string]string
	// Debounce is the quiet period before a state change triggers a
	// fetch. Zero means DefaultDebounce.
	Debounce time.Duration
	// PageSize is the initial page size.
	PageSize int
	// Seed is the initial filter set, e.g. decoded from a deep-linked
	// URL with DecodeFilters.
	Seed Filters
}

// DefaultDebounce is the fetch quiet period used when Options.Debounce is
// zero.
const DefaultDebounce = 300 * time.Millisecond

// Controller reconciles table state with a remote source. State changes
// (pagination, filters, sort) schedule a debounced fetch; each fetch is
// tagged with a monotonically increasing ticket and a response is applied
// only if no response with a higher ticket has been applied already, so
// out-of-order arrivals never roll the table back to stale data.
//
// On fetch failure the previously loaded rows and metadata stay in place;
// the failure is logged and recorded. The loading flag clears on every
// outcome.
type Controller[T any] struct {
	fields  Fields
	columns []Column[T]
	rowID   func(T) string
	remap   map[string]string
	source  Source[T]
	state   *State
	sched   *scheduler
	logger  *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	tickets atomic.Uint64
	pending atomic.Int64

	mu       sync.Mutex
	rows     []T
	meta     Metadata
	applied  uint64
	lastErr  error
	selected map[string]bool
	applyFns []func()
}

// NewController creates a controller over the given source. The returned
// controller does not fetch automatically until Start is called; Refresh
// works immediately.
func NewController[T any](source Source[T], opts Options[T]) (*Controller[T], error) {
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if len(opts.Columns) == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}
	if opts.RowID == nil {
		return nil, fmt.Errorf("a row identity function is required")
	}
	if err := opts.Fields.Validate(); err != nil {
		return nil, fmt.Errorf("validating filter fields: %w", err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Controller[T]{
		fields:   opts.Fields,
		columns:  opts.Columns,
		rowID:    opts.RowID,
		remap:    opts.SortFieldMap,
		source:   source,
		state:    NewState(opts.PageSize, opts.Seed),
		sched:    newScheduler(debounce),
		logger:   log.ForComponent("fetcher"),
		selected: make(map[string]bool),
	}, nil
}

// Start begins observing state changes: any pagination, filter or sort
// change schedules a debounced fetch. Visibility changes never trigger a
// fetch. Scheduled fetches run until ctx is cancelled or Close is called.
func (c *Controller[T]) Start(ctx context.Context) {
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.state.Subscribe(func(kind ChangeKind) {
		if kind == ChangeVisibility {
			return
		}
		if c.ctx.Err() != nil {
			return
		}
		c.sched.Schedule(func() {
			if err := c.fetch(c.ctx); err != nil && c.ctx.Err() == nil {
				c.logger.Errorf("scheduled fetch: %v", err)
			}
		})
	})
}

// Close stops any pending scheduled fetch and cancels in-flight ones
// started through the Start context.
func (c *Controller[T]) Close() {
	c.sched.Stop()
	if c.cancel != nil {
		c.cancel()
	}
}

// State returns the table state store. The controller is its sole writer
// for fetch results; callers mutate UI state through the store's setters.
func (c *Controller[T]) State() *State { return c.state }

// Fields returns the declared filter fields.
func (c *Controller[T]) Fields() Fields { return c.fields }

// Columns returns the declared columns.
func (c *Controller[T]) Columns() []Column[T] { return c.columns }

// Refresh fetches immediately, bypassing the debounce. Intended for
// manual refresh after a mutating action.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.fetch(ctx)
}

func (c *Controller[T]) fetch(ctx context.Context) error {
	ticket := c.tickets.Add(1)
	pagination, filters, sort := c.state.snapshot()
	query := BuildQuery(pagination, filters, sort, c.remap)

	c.pending.Add(1)
	page, err := c.source.FetchPage(ctx, query)
	// The loading flag clears regardless of outcome.
	c.pending.Add(-1)

	c.mu.Lock()
	if ticket <= c.applied {
		c.mu.Unlock()
		c.logger.Debugf("discarding stale response (ticket %d, applied %d)", ticket, c.applied)
		return err
	}
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Errorf("fetch failed, keeping previously loaded rows: %v", err)
		return err
	}
	c.rows = page.Rows
	c.meta = page.Meta
	c.applied = ticket
	c.lastErr = nil
	c.pruneSelectionLocked()
	applyFns := slices.Clone(c.applyFns)
	c.mu.Unlock()

	c.logger.Debugf("applied ticket %d: %d rows, server page %d", ticket, len(page.Rows), page.Meta.Page)
	for _, fn := range applyFns {
		fn()
	}
	return nil
}

// OnApply registers fn to run after every applied fetch (new rows visible).
func (c *Controller[T]) OnApply(fn func()) {
	c.mu.Lock()
	c.applyFns = append(c.applyFns, fn)
	c.mu.Unlock()
}

// Rows returns the most recently applied rows, in server order.
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.rows)
}

// Meta returns the most recently applied pagination metadata.
func (c *Controller[T]) Meta() Metadata {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta
}

// Loading reports whether any fetch is in flight.
func (c *Controller[T]) Loading() bool {
	return c.pending.Load() > 0
}

// LastError returns the error of the most recent failed fetch, or nil
// after a successful one.
func (c *Controller[T]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// QueryString returns the canonical URL query-string record of the filter
// state, with every declared field present (empty when inactive).
func (c *Controller[T]) QueryString() url.Values {
	return EncodeFilters(c.fields, c.state.Filters())
}

// Facets computes the faceted value counts for the column with the given
// key over the currently loaded rows.
func (c *Controller[T]) Facets(key string) map[string]int {
	for _, col := range c.columns {
		if col.Key == key {
			return FacetCounts(c.Rows(), col)
		}
	}
	return map[string]int{}
}

// Select sets the selection state of one row by identity.
func (c *Controller[T]) Select(id string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.selected[id] = true
	} else {
		delete(c.selected, id)
	}
}

// SelectAllPage selects or deselects every row on the current page.
func (c *Controller[T]) SelectAllPage(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, row := range c.rows {
		id := c.rowID(row)
		if on {
			c.selected[id] = true
		} else {
			delete(c.selected, id)
		}
	}
}

// IsSelected reports the selection state of one row.
func (c *Controller[T]) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected[id]
}

// SelectedIDs returns the selected row identities in current row order.
func (c *Controller[T]) SelectedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.selected))
	for _, row := range c.rows {
		if id := c.rowID(row); c.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

// selection only tracks rows on the loaded page; rows that paged out are
// dropped.
func (c *Controller[T]) pruneSelectionLocked() {
	if len(c.selected) == 0 {
		return
	}
	keep := make(map[string]bool, len(c.rows))
	for _, row := range c.rows {
		id := c.rowID(row)
		if c.selected[id] {
			keep[id] = true
		}
	}
	c.selected = keep
}
