// Package cache keeps the last successful offers page for each query on
// disk, so the CLI can still show something when the service is down.
// Cached rows are presentation fallback only; they are never re-filtered,
// re-sorted or re-paginated locally.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/offerdeck/offerdeck/pkg/log"
	"github.com/offerdeck/offerdeck/pkg/offers"
	"github.com/offerdeck/offerdeck/pkg/table"
)

// Cache is a SQLite-backed snapshot store keyed by canonical query.
type Cache struct {
	db      *sql.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	logger  *log.Logger
}

// Open creates or opens the snapshot database at dbPath.
func Open(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS snapshots (
		query_key  TEXT PRIMARY KEY,
		fetched_at TEXT NOT NULL,
		data       BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating snapshot schema: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		_ = db.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	return &Cache{
		db:      db,
		encoder: encoder,
		decoder: decoder,
		logger:  log.ForComponent("cache"),
	}, nil
}

// Close releases the database and codec resources.
func (c *Cache) Close() error {
	c.decoder.Close()
	if err := c.encoder.Close(); err != nil {
		c.logger.Errorf("closing zstd encoder: %v", err)
	}
	return c.db.Close()
}

// Key canonicalizes a listing path plus query into a stable cache key.
// url.Values.Encode sorts parameters, so equivalent queries collide.
func Key(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// Put stores page as the latest snapshot for the given path and query.
func (c *Cache) Put(path string, query url.Values, page *table.Page[offers.Offer]) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	compressed := c.encoder.EncodeAll(data, nil)

	_, err = c.db.Exec(
		`INSERT INTO snapshots (query_key, fetched_at, data) VALUES (?, ?, ?)
		 ON CONFLICT(query_key) DO UPDATE SET fetched_at = excluded.fetched_at, data = excluded.data`,
		Key(path, query), time.Now().UTC().Format(time.RFC3339), compressed,
	)
	if err != nil {
		return fmt.Errorf("storing snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot for the given path and query, plus when it was
// fetched. A miss returns (nil, zero time, nil).
func (c *Cache) Get(path string, query url.Values) (*table.Page[offers.Offer], time.Time, error) {
	var fetchedAt string
	var compressed []byte
	err := c.db.QueryRow(
		"SELECT fetched_at, data FROM snapshots WHERE query_key = ?",
		Key(path, query),
	).Scan(&fetchedAt, &compressed)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading snapshot: %w", err)
	}

	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("decompressing snapshot: %w", err)
	}
	var page table.Page[offers.Offer]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding snapshot: %w", err)
	}

	when, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		when = time.Time{}
	}
	return &page, when, nil
}

// Prune deletes snapshots older than maxAge. It returns the number of
// rows removed.
func (c *Cache) Prune(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)
	res, err := c.db.Exec("DELETE FROM snapshots WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return res.RowsAffected()
}
