package state

import (
	"errors"
	"testing"
	"time"
)

type row struct {
	Title string
}

func TestStore_ZeroValueReportsInitialLoad(t *testing.T) {
	var s Store[row]

	snap := s.Snapshot()
	if !snap.InitialLoad {
		t.Fatal("InitialLoad = false before any update, want true")
	}
	if snap.HasData || len(snap.Rows) != 0 {
		t.Fatalf("zero-value snapshot has data: %#v", snap)
	}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store[row]

	before := time.Now()
	s.Update([]row{{Title: "Apertura"}, {Title: "Taller"}}, nil)

	snap := s.Snapshot()
	if snap.InitialLoad {
		t.Fatal("InitialLoad = true after an update, want false")
	}
	if !snap.HasData || len(snap.Rows) != 2 || snap.Rows[0].Title != "Apertura" {
		t.Fatalf("snapshot = %#v, want 2 rows", snap)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot must be independent of the stored one.
	snap.Rows[0].Title = "mutated"
	if s.Snapshot().Rows[0].Title != "Apertura" {
		t.Fatal("Snapshot should clone rows")
	}
}

func TestStore_UpdateErrorKeepsPreviousRows(t *testing.T) {
	var s Store[row]

	s.Update([]row{{Title: "Apertura"}}, nil)
	s.Update(nil, errors.New("boom"))

	snap := s.Snapshot()
	if !snap.HasData || len(snap.Rows) != 1 || snap.Rows[0].Title != "Apertura" {
		t.Fatalf("rows changed on error: %#v", snap.Rows)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if snap.InitialLoad {
		t.Fatal("InitialLoad = true after a failed update, want false")
	}
}

func TestStore_ConsecutiveFailuresAndRecovery(t *testing.T) {
	var s Store[row]

	s.Update(nil, errors.New("fail 1"))
	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline after 1 failure, want false")
	}
	s.Update(nil, errors.New("fail 2"))
	if !s.Snapshot().IsOffline() {
		t.Fatal("not offline after 2 failures, want true")
	}

	s.Update([]row{{Title: "Cierre"}}, nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.LastError != nil || snap.IsOffline() {
		t.Fatalf("failure state not reset on success: %#v", snap)
	}
}
