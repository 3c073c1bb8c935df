package cache

import (
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/offerdeck/offerdeck/pkg/offers"
	"github.com/offerdeck/offerdeck/pkg/table"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return c
}

func samplePage() *table.Page[offers.Offer] {
	return &table.Page[offers.Offer]{
		Rows: []offers.Offer{
			{ID: "o1", Name: "Backend role", Status: offers.StatusPending, Salary: "90000"},
			{ID: "o2", Name: "Frontend role", Status: offers.StatusAccepted, Salary: "85000"},
		},
		Meta: table.Metadata{TotalDocs: 2, Limit: 10, Page: 1, TotalPages: 1},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c := openTestCache(t)
	query := url.Values{"page": {"1"}, "limit": {"10"}}

	if err := c.Put("/api/offer", query, samplePage()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, when, err := c.Get("/api/offer", query)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected a snapshot, got miss")
	}
	if when.IsZero() {
		t.Error("fetched_at should not be zero")
	}
	if len(got.Rows) != 2 || got.Rows[0].ID != "o1" {
		t.Errorf("rows = %+v", got.Rows)
	}
	if got.Meta.TotalDocs != 2 {
		t.Errorf("TotalDocs = %d", got.Meta.TotalDocs)
	}
}

func TestGetMiss(t *testing.T) {
	c := openTestCache(t)
	got, when, err := c.Get("/api/offer", url.Values{"page": {"9"}})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil || !when.IsZero() {
		t.Errorf("expected miss, got %+v at %v", got, when)
	}
}

func TestPutOverwritesSameQuery(t *testing.T) {
	c := openTestCache(t)
	query := url.Values{"page": {"1"}}

	if err := c.Put("/api/offer", query, samplePage()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	updated := samplePage()
	updated.Rows = updated.Rows[:1]
	updated.Meta.TotalDocs = 1
	if err := c.Put("/api/offer", query, updated); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _, err := c.Get("/api/offer", query)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Rows) != 1 || got.Meta.TotalDocs != 1 {
		t.Errorf("snapshot not overwritten: %+v", got)
	}
}

func TestKeyIsCanonical(t *testing.T) {
	a := url.Values{}
	a.Set("page", "1")
	a.Set("status", "PENDING")
	b := url.Values{}
	b.Set("status", "PENDING")
	b.Set("page", "1")
	if Key("/api/offer", a) != Key("/api/offer", b) {
		t.Errorf("keys differ for equivalent queries: %q vs %q", Key("/api/offer", a), Key("/api/offer", b))
	}
}

func TestPrune(t *testing.T) {
	c := openTestCache(t)
	if err := c.Put("/api/offer", nil, samplePage()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	removed, err := c.Prune(time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 0 {
		t.Errorf("fresh snapshot pruned: removed=%d", removed)
	}

	removed, err = c.Prune(-time.Second)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	got, _, err := c.Get("/api/offer", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("snapshot should be gone after prune")
	}
}
