// Package cache provides the persistent payload cache that backs offline use.
// Entries are keyed by normalized request URL and expire after MaxAge.
package cache

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// MaxAge is how long a cached payload stays servable. Stale entries are
// removed lazily on read and by SweepExpired.
const MaxAge = 7 * 24 * time.Hour

// Store is a durable key→payload map on SQLite. The zero value is not usable;
// construct with Open. All methods are safe for concurrent use: each key has
// last-writer-wins semantics and entries are independent, so no locking
// beyond the driver's is needed.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the cache database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			url TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			stored_at INTEGER NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores payload under key, overwriting any previous entry. The cache is
// a best-effort optimization: storage failures are logged and swallowed so a
// degraded store never breaks a live fetch.
func (s *Store) Put(key, payload string) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.Exec(
		"INSERT INTO entries (url, payload, stored_at) VALUES (?, ?, ?) ON CONFLICT(url) DO UPDATE SET payload = excluded.payload, stored_at = excluded.stored_at",
		key, payload, s.now().UnixMilli(),
	)
	if err != nil {
		log.Printf("cache put %s failed: %v", key, err)
	}
}

// Get returns the payload stored under key if it exists and is younger than
// MaxAge. A stale entry reports a miss and is deleted in the background.
// Storage errors degrade to a miss.
func (s *Store) Get(key string) (string, bool) {
	if s == nil || s.db == nil {
		return "", false
	}
	var payload string
	var storedAt int64
	err := s.db.QueryRow("SELECT payload, stored_at FROM entries WHERE url = ?", key).Scan(&payload, &storedAt)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		log.Printf("cache get %s failed: %v", key, err)
		return "", false
	}
	if s.now().Sub(time.UnixMilli(storedAt)) > MaxAge {
		go s.Delete(key)
		return "", false
	}
	return payload, true
}

// Delete removes the entry for key. Removing a missing key is a no-op.
func (s *Store) Delete(key string) {
	if s == nil || s.db == nil {
		return
	}
	if _, err := s.db.Exec("DELETE FROM entries WHERE url = ?", key); err != nil {
		log.Printf("cache delete %s failed: %v", key, err)
	}
}

// SweepExpired deletes every entry older than MaxAge. Safe to run while
// reads and writes are in flight.
func (s *Store) SweepExpired() {
	if s == nil || s.db == nil {
		return
	}
	cutoff := s.now().Add(-MaxAge).UnixMilli()
	if _, err := s.db.Exec("DELETE FROM entries WHERE stored_at < ?", cutoff); err != nil {
		log.Printf("cache sweep failed: %v", err)
	}
}
