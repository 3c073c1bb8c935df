package table

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"
)

type offerRow struct {
	ID   string
	Name string
	Tags []string
}

func testColumns() []Column[offerRow] {
	return []Column[offerRow]{
		{Key: "name", Title: "Name", Sortable: true, Value: func(r offerRow) any { return r.Name }},
		{Key: "tags", Title: "Tags", MultiValued: true, Value: func(r offerRow) any { return r.Tags }},
	}
}

func testFields() Fields {
	return Fields{
		{Label: "Name", Key: "name", Kind: KindText},
		{Label: "Status", Key: "status", Kind: KindCheckbox, Options: []Option{{Label: "Pending", Value: "PENDING"}}},
	}
}

// fetchCall lets the test decide when and how an in-flight fetch resolves.
type fetchCall struct {
	query   url.Values
	respond chan *Page[offerRow]
	fail    chan error
}

type blockingSource struct {
	calls chan *fetchCall
}

func newBlockingSource() *blockingSource {
	return &blockingSource{calls: make(chan *fetchCall, 16)}
}

func (s *blockingSource) FetchPage(ctx context.Context, q url.Values) (*Page[offerRow], error) {
	c := &fetchCall{query: q, respond: make(chan *Page[offerRow]), fail: make(chan error)}
	s.calls <- c
	select {
	case p := <-c.respond:
		return p, nil
	case err := <-c.fail:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *blockingSource) next(t *testing.T) *fetchCall {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a fetch call")
		return nil
	}
}

// recordingSource resolves immediately and records every query it saw.
type recordingSource struct {
	mu      sync.Mutex
	queries []url.Values
	page    *Page[offerRow]
}

func (s *recordingSource) FetchPage(_ context.Context, q url.Values) (*Page[offerRow], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if s.page != nil {
		return s.page, nil
	}
	return &Page[offerRow]{}, nil
}

func (s *recordingSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func (s *recordingSource) last() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queries) == 0 {
		return nil
	}
	return s.queries[len(s.queries)-1]
}

func newTestController(t *testing.T, src Source[offerRow], debounce time.Duration) *Controller[offerRow] {
	t.Helper()
	ctrl, err := NewController(src, Options[offerRow]{
		Fields:   testFields(),
		Columns:  testColumns(),
		RowID:    func(r offerRow) string { return r.ID },
		PageSize: 10,
		Debounce: debounce,
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	t.Cleanup(ctrl.Close)
	return ctrl
}

func page(meta Metadata, rows ...offerRow) *Page[offerRow] {
	return &Page[offerRow]{Rows: rows, Meta: meta}
}

func TestStaleResponseRejected(t *testing.T) {
	src := newBlockingSource()
	ctrl := newTestController(t, src, 0)
	ctx := context.Background()

	done1 := make(chan error, 1)
	go func() { done1 <- ctrl.Refresh(ctx) }()
	call1 := src.next(t)

	done2 := make(chan error, 1)
	go func() { done2 <- ctrl.Refresh(ctx) }()
	call2 := src.next(t)

	// The later fetch resolves first.
	call2.respond <- page(Metadata{Page: 1, TotalDocs: 1}, offerRow{ID: "b", Name: "fresh"})
	if err := <-done2; err != nil {
		t.Fatalf("second refresh: %v", err)
	}

	// The earlier, slower fetch resolves afterwards and must be discarded.
	call1.respond <- page(Metadata{Page: 1, TotalDocs: 1}, offerRow{ID: "a", Name: "stale"})
	<-done1

	rows := ctrl.Rows()
	if len(rows) != 1 || rows[0].ID != "b" {
		t.Fatalf("displayed rows = %+v, want the fresher response", rows)
	}
	if ctrl.Loading() {
		t.Error("loading flag should be cleared after all fetches resolve")
	}
}

func TestFetchErrorKeepsPreviousRows(t *testing.T) {
	src := newBlockingSource()
	ctrl := newTestController(t, src, 0)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(ctx) }()
	src.next(t).respond <- page(Metadata{Page: 1, TotalDocs: 1}, offerRow{ID: "a", Name: "kept"})
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	go func() { done <- ctrl.Refresh(ctx) }()
	src.next(t).fail <- errors.New("network down")
	if err := <-done; err == nil {
		t.Fatal("expected refresh error")
	}

	rows := ctrl.Rows()
	if len(rows) != 1 || rows[0].ID != "a" {
		t.Fatalf("rows after failure = %+v, want previous data intact", rows)
	}
	if ctrl.Meta().TotalDocs != 1 {
		t.Error("metadata should be untouched by a failed fetch")
	}
	if ctrl.LastError() == nil {
		t.Error("last error should be recorded")
	}
	if ctrl.Loading() {
		t.Error("loading flag should be cleared after a failed fetch")
	}

	// A later success clears the recorded error.
	go func() { done <- ctrl.Refresh(ctx) }()
	src.next(t).respond <- page(Metadata{Page: 1}, offerRow{ID: "c"})
	<-done
	if ctrl.LastError() != nil {
		t.Error("last error should clear on success")
	}
}

func TestDebounceCoalescesBursts(t *testing.T) {
	src := &recordingSource{}
	ctrl := newTestController(t, src, 25*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl.Start(ctx)

	// A burst of changes within the quiet period must produce exactly one
	// fetch, reflecting the state at the time of the last change.
	ctrl.State().SetPagination(Pagination{Index: 5, Size: 10})
	ctrl.State().SetFilter("name", Text("a"))
	ctrl.State().SetFilter("name", Text("ab"))
	ctrl.State().SetFilter("name", Text("abc"))

	waitFor(t, func() bool { return src.count() >= 1 })
	time.Sleep(100 * time.Millisecond)

	if got := src.count(); got != 1 {
		t.Fatalf("issued %d fetches, want exactly 1", got)
	}
	q := src.last()
	if got := q.Get("name"); got != "abc" {
		t.Errorf("query name = %q, want state at time of last change", got)
	}
	// Filter changes reset the page framing before the fetch ever runs.
	if got := q.Get("page"); got != "1" {
		t.Errorf("query page = %q, want 1 after filter change", got)
	}
}

func TestVisibilityChangeDoesNotFetch(t *testing.T) {
	src := &recordingSource{}
	ctrl := newTestController(t, src, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl.Start(ctx)

	ctrl.State().SetVisible("tags", false)
	time.Sleep(80 * time.Millisecond)

	if got := src.count(); got != 0 {
		t.Fatalf("visibility change issued %d fetches, want 0", got)
	}
}

func TestManualRefreshBypassesDebounce(t *testing.T) {
	src := &recordingSource{}
	ctrl := newTestController(t, src, time.Hour)

	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := src.count(); got != 1 {
		t.Fatalf("manual refresh issued %d fetches, want 1 immediately", got)
	}
}

func TestTicketNotServerPageIsAuthoritative(t *testing.T) {
	src := newBlockingSource()
	ctrl := newTestController(t, src, 0)
	ctrl.State().SetPagination(Pagination{Index: 2, Size: 10})

	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(context.Background()) }()
	call := src.next(t)
	if got := call.query.Get("page"); got != "3" {
		t.Fatalf("request page = %q, want 3", got)
	}

	// The server echoes a different page number. The response is still the
	// latest-issued ticket, so it must be accepted as-is.
	call.respond <- page(Metadata{Page: 1, TotalDocs: 42}, offerRow{ID: "x"})
	if err := <-done; err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := ctrl.Meta().Page; got != 1 {
		t.Errorf("metadata page = %d, want server-echoed 1", got)
	}
	if got := ctrl.Meta().TotalDocs; got != 42 {
		t.Errorf("metadata not applied: %+v", ctrl.Meta())
	}
}

func TestSelection(t *testing.T) {
	src := &recordingSource{page: page(Metadata{Page: 1},
		offerRow{ID: "a"}, offerRow{ID: "b"}, offerRow{ID: "c"})}
	ctrl := newTestController(t, src, 0)

	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctrl.Select("b", true)
	if !ctrl.IsSelected("b") || ctrl.IsSelected("a") {
		t.Fatal("single selection wrong")
	}

	ctrl.SelectAllPage(true)
	if got := ctrl.SelectedIDs(); len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("select all = %v, want [a b c] in row order", got)
	}

	ctrl.SelectAllPage(false)
	if got := ctrl.SelectedIDs(); len(got) != 0 {
		t.Fatalf("deselect all left %v", got)
	}

	// Selection does not survive rows paging out.
	ctrl.Select("a", true)
	src.mu.Lock()
	src.page = page(Metadata{Page: 2}, offerRow{ID: "d"})
	src.mu.Unlock()
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := ctrl.SelectedIDs(); len(got) != 0 {
		t.Fatalf("selection should be pruned to loaded rows, got %v", got)
	}
}

func TestOnApply(t *testing.T) {
	src := &recordingSource{}
	ctrl := newTestController(t, src, 0)

	applied := 0
	ctrl.OnApply(func() { applied++ })

	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if applied != 1 {
		t.Fatalf("apply callbacks ran %d times, want 1", applied)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
