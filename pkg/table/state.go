package table

import (
	"maps"
	"sync"
)

// Pagination is the local page framing. Index is zero-based; the server's
// page parameter is 1-based (serverPage = Index + 1).
type Pagination struct {
	Index int
	Size  int
}

// Sort is a single-column sort. A nil *Sort means "no explicit sort; the
// server default order applies".
type Sort struct {
	Key  string
	Desc bool
}

// ChangeKind identifies which slice of state a notification refers to.
type ChangeKind int

const (
	ChangePagination ChangeKind = iota
	ChangeFilters
	ChangeSort
	ChangeVisibility
)

// State owns the table UI state: pagination, column filters, sort and
// column visibility. It performs no I/O and knows nothing about the
// server; it is written by exactly one owning component and read by many.
//
// Setters apply synchronously and accept either a literal value or, via
// the Update* variants, a function of the previous value. Filter setters
// reset the page index to zero in the same update, since changing filters
// invalidates the current page framing.
type State struct {
	mu         sync.Mutex
	pagination Pagination
	filters    Filters
	sort       *Sort
	visibility map[string]bool

	subs []func(ChangeKind)
}

// NewState creates table state with the given page size and optional
// seed filters (e.g. decoded from a deep-linked URL).
func NewState(pageSize int, seed Filters) *State {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &State{
		pagination: Pagination{Index: 0, Size: pageSize},
		filters:    seed.Clone(),
		visibility: make(map[string]bool),
	}
}

// Subscribe registers fn to be called after every state change. Callbacks
// run synchronously on the mutating goroutine, outside the state lock.
func (s *State) Subscribe(fn func(ChangeKind)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *State) notify(kind ChangeKind) {
	s.mu.Lock()
	subs := make([]func(ChangeKind), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(kind)
	}
}

// Pagination returns the current page framing.
func (s *State) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// SetPagination replaces the page framing.
func (s *State) SetPagination(p Pagination) {
	s.UpdatePagination(func(Pagination) Pagination { return p })
}

// UpdatePagination applies a functional update to the page framing.
func (s *State) UpdatePagination(fn func(Pagination) Pagination) {
	s.mu.Lock()
	p := fn(s.pagination)
	if p.Size <= 0 {
		p.Size = s.pagination.Size
	}
	if p.Index < 0 {
		p.Index = 0
	}
	s.pagination = p
	s.mu.Unlock()
	s.notify(ChangePagination)
}

// Filters returns a copy of the active filter set.
func (s *State) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

// SetFilters replaces the filter set and resets the page index to zero.
func (s *State) SetFilters(f Filters) {
	s.UpdateFilters(func(Filters) Filters { return f })
}

// UpdateFilters applies a functional update to the filter set and resets
// the page index to zero in the same logical update.
func (s *State) UpdateFilters(fn func(Filters) Filters) {
	s.mu.Lock()
	s.filters = fn(s.filters.Clone()).Clone()
	s.pagination.Index = 0
	s.mu.Unlock()
	s.notify(ChangeFilters)
}

// SetFilter sets (or, for an empty value, removes) the filter for one
// field key.
func (s *State) SetFilter(key string, v Value) {
	s.UpdateFilters(func(f Filters) Filters { return f.With(key, v) })
}

// Sort returns the active sort, or nil when the server default applies.
func (s *State) Sort() *Sort {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sort == nil {
		return nil
	}
	cp := *s.sort
	return &cp
}

// SetSort replaces the sort spec.
func (s *State) SetSort(sort *Sort) {
	s.mu.Lock()
	if sort == nil {
		s.sort = nil
	} else {
		cp := *sort
		s.sort = &cp
	}
	s.mu.Unlock()
	s.notify(ChangeSort)
}

// CycleSort advances the sort cycle for key: unsorted -> ascending ->
// descending -> unsorted. Cycling a different key while one is active
// clears the previous sort and starts ascending on the new key.
func (s *State) CycleSort(key string) {
	s.mu.Lock()
	switch {
	case s.sort == nil || s.sort.Key != key:
		s.sort = &Sort{Key: key}
	case !s.sort.Desc:
		s.sort = &Sort{Key: key, Desc: true}
	default:
		s.sort = nil
	}
	s.mu.Unlock()
	s.notify(ChangeSort)
}

// Visibility returns a copy of the column visibility overrides. Columns
// absent from the map use their declared default.
func (s *State) Visibility() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.visibility)
}

// SetVisibility replaces the visibility overrides.
func (s *State) SetVisibility(v map[string]bool) {
	s.mu.Lock()
	s.visibility = maps.Clone(v)
	if s.visibility == nil {
		s.visibility = make(map[string]bool)
	}
	s.mu.Unlock()
	s.notify(ChangeVisibility)
}

// SetVisible overrides the visibility of a single column.
func (s *State) SetVisible(key string, on bool) {
	s.mu.Lock()
	s.visibility[key] = on
	s.mu.Unlock()
	s.notify(ChangeVisibility)
}

// snapshot returns a consistent view of the fetch-relevant state under a
// single lock acquisition.
func (s *State) snapshot() (Pagination, Filters, *Sort) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sort *Sort
	if s.sort != nil {
		cp := *s.sort
		sort = &cp
	}
	return s.pagination, s.filters.Clone(), sort
}
