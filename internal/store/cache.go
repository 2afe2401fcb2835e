// Package store provides a SQLite-backed cache for API views and a local
// journal of setup submissions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Cache provides SQLite-backed view caching and the submission journal.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetView returns the cached payload of kind for profileID if it was fetched
// less than maxAge ago. A maxAge of zero or less disables expiry.
func (c *Cache) GetView(ctx context.Context, profileID int64, kind string, maxAge time.Duration) ([]byte, bool, error) {
	var payload []byte
	var fetchedStr string
	err := c.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM views WHERE profile_id = ? AND kind = ?",
		profileID, kind,
	).Scan(&payload, &fetchedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if maxAge > 0 {
		fetchedAt, err := time.Parse(timeLayout, fetchedStr)
		if err != nil || c.now().Sub(fetchedAt) >= maxAge {
			return nil, false, nil
		}
	}
	return payload, true, nil
}

// PutView stores payload as the current view of kind for profileID.
func (c *Cache) PutView(ctx context.Context, profileID int64, kind string, payload []byte) error {
	_, err := c.db.ExecContext(ctx, `INSERT OR REPLACE INTO views
		(profile_id, kind, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		profileID, kind, payload, c.now().UTC().Format(timeLayout),
	)
	return err
}

// DeleteView drops one cached view.
func (c *Cache) DeleteView(ctx context.Context, profileID int64, kind string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM views WHERE profile_id = ? AND kind = ?", profileID, kind)
	return err
}

// InvalidateProfile drops every cached view of profileID.
func (c *Cache) InvalidateProfile(ctx context.Context, profileID int64) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM views WHERE profile_id = ?", profileID)
	return err
}

// ViewCount returns the number of cached views.
func (c *Cache) ViewCount(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM views").Scan(&count)
	return count, err
}
