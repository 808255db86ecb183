// Package state provides the thread-safe snapshot stores the UI reads.
// One Store holds the latest published rows for one data source; the
// poller writes, the UI refresh loop reads.
package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot is the latest view of one data source. Rows are replaced
// wholesale on every accepted update and never mutated in place.
type Snapshot[T any] struct {
	Rows                []T
	HasData             bool
	InitialLoad         bool // no fetch attempt has completed yet
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline reports whether the source has been unreachable for multiple
// consecutive polls.
func (s Snapshot[T]) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent access to one source's snapshot. The zero
// value is ready to use and reports InitialLoad until the first Update.
type Store[T any] struct {
	mu       sync.RWMutex
	snapshot Snapshot[T]
	updated  bool
}

// Update replaces the stored rows. When err is non-nil the previous rows are
// kept and only the error bookkeeping changes, so a background failure never
// disturbs displayed data.
func (s *Store[T]) Update(rows []T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updated = true
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.Rows = cloneRows(rows)
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns an independent copy of the current snapshot.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Rows = cloneRows(s.snapshot.Rows)
	snap.InitialLoad = !s.updated
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneRows[T any](rows []T) []T {
	if len(rows) == 0 {
		return nil
	}
	dup := make([]T, len(rows))
	copy(dup, rows)
	return dup
}
