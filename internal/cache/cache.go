// Package cache persists fetched source batches with a TTL and the last
// run's result for diff mode, backed by a local SQLite file.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kwestin/newsdesk/internal/news"
)

// DefaultTTL is how long cached source batches stay fresh.
const DefaultTTL = 60 * time.Minute

// Cache wraps the SQLite connection.
type Cache struct {
	conn *sql.DB
	path string
	ttl  time.Duration
}

// Stats reports cache contents.
type Stats struct {
	Entries        int
	ExpiredEntries int
	LastRunEntries int
	Path           string
}

// Open creates or opens the cache database at the given path.
func Open(dbPath string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Cache{conn: conn, path: dbPath, ttl: ttl}, nil
}

// Close closes the cache connection.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// Get returns the cached batch for a source key if present and fresh.
func (c *Cache) Get(key string, now time.Time) ([]news.RawItem, bool) {
	var data, expiresAt string
	err := c.conn.QueryRow(
		"SELECT data, expires_at FROM cache WHERE cache_key = ?", key,
	).Scan(&data, &expiresAt)
	if err != nil {
		return nil, false
	}

	expires, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil || now.After(expires) {
		c.conn.Exec("DELETE FROM cache WHERE cache_key = ?", key)
		return nil, false
	}

	var items []news.RawItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, false
	}
	return items, true
}

// Set stores a source batch under a key with the cache's TTL.
func (c *Cache) Set(key string, items []news.RawItem, now time.Time) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	_, err = c.conn.Exec(
		`INSERT OR REPLACE INTO cache (cache_key, data, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		key, string(data), now.Format(time.RFC3339), now.Add(c.ttl).Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// LastRun returns the saved result for a run ID, or nil when absent.
func (c *Cache) LastRun(runID string) (*news.Result, error) {
	var data string
	err := c.conn.QueryRow("SELECT data FROM last_run WHERE run_id = ?", runID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading last run: %w", err)
	}

	var result news.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("decoding last run: %w", err)
	}
	return &result, nil
}

// SaveLastRun stores a run result for future diff comparison.
func (c *Cache) SaveLastRun(runID string, result *news.Result, now time.Time) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding run result: %w", err)
	}

	_, err = c.conn.Exec(
		`INSERT OR REPLACE INTO last_run (run_id, data, created_at) VALUES (?, ?, ?)`,
		runID, string(data), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving run result: %w", err)
	}
	return nil
}

// RunInfo identifies one saved run.
type RunInfo struct {
	RunID     string
	CreatedAt string
}

// Runs lists saved runs, most recent first.
func (c *Cache) Runs() ([]RunInfo, error) {
	rows, err := c.conn.Query("SELECT run_id, created_at FROM last_run ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.RunID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ClearExpired removes stale cache entries and reports how many.
func (c *Cache) ClearExpired(now time.Time) (int, error) {
	res, err := c.conn.Exec("DELETE FROM cache WHERE expires_at < ?", now.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("clearing expired entries: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Clear removes all cache and last-run data.
func (c *Cache) Clear() error {
	if _, err := c.conn.Exec("DELETE FROM cache"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	if _, err := c.conn.Exec("DELETE FROM last_run"); err != nil {
		return fmt.Errorf("clearing last runs: %w", err)
	}
	return nil
}

// GetStats reports cache contents.
func (c *Cache) GetStats(now time.Time) (*Stats, error) {
	s := &Stats{Path: c.path}
	if err := c.conn.QueryRow("SELECT COUNT(*) FROM cache").Scan(&s.Entries); err != nil {
		return nil, fmt.Errorf("counting cache entries: %w", err)
	}
	if err := c.conn.QueryRow(
		"SELECT COUNT(*) FROM cache WHERE expires_at < ?", now.Format(time.RFC3339),
	).Scan(&s.ExpiredEntries); err != nil {
		return nil, fmt.Errorf("counting expired entries: %w", err)
	}
	if err := c.conn.QueryRow("SELECT COUNT(*) FROM last_run").Scan(&s.LastRunEntries); err != nil {
		return nil, fmt.Errorf("counting last runs: %w", err)
	}
	return s, nil
}
