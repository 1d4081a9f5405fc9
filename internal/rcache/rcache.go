// Package rcache provides a SQLite-backed cache for rendered block output.
// Highlighting and markdown rendering are pure functions of their input, so
// the cache is keyed by a content hash and entries can be dropped at any
// time without breaking anything.
package rcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS render_cache (
	key      TEXT PRIMARY KEY,
	output   TEXT NOT NULL,
	created  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_render_created ON render_cache(created);
`

// Cache is a SQLite-backed render cache.
type Cache struct {
	mu  sync.Mutex
	db  *sql.DB
	ttl time.Duration
}

// Key derives the cache key for one rendered element. kind separates
// renderers sharing the cache, theme separates visual variants.
func Key(kind, theme, content string) string {
	h := sha256.Sum256([]byte(kind + "\x00" + theme + "\x00" + content))
	return hex.EncodeToString(h[:])
}

// Open creates or opens a cache database at the given path. ttl controls
// how long entries remain fresh.
func Open(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open render cache db: %w", err)
	}

	// SQLite pragmas for performance.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	c := &Cache{db: db, ttl: ttl}
	c.purgeStale()
	return c, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached output for key, if present and fresh.
func (c *Cache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var output string
	var created int64
	err := c.db.QueryRow(
		`SELECT output, created FROM render_cache WHERE key = ?`, key,
	).Scan(&output, &created)
	if err != nil {
		return "", false
	}
	if time.Since(time.Unix(created, 0)) > c.ttl {
		log.Debug().Str("key", key).Msg("render cache entry stale")
		return "", false
	}
	return output, true
}

// Put stores output under key, replacing any previous entry.
func (c *Cache) Put(key, output string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO render_cache (key, output, created) VALUES (?, ?, ?)`,
		key, output, time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Msg("render cache write failed")
	}
}

// purgeStale removes entries older than the TTL.
func (c *Cache) purgeStale() {
	cutoff := time.Now().Add(-c.ttl).Unix()
	res, err := c.db.Exec(`DELETE FROM render_cache WHERE created < ?`, cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("render cache purge failed")
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Debug().Int64("entries", n).Msg("purged stale render cache entries")
	}
}
