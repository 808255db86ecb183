package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"encuentro/internal/cache"
	"encuentro/internal/config"
	"encuentro/internal/sheet"
)

func testConfig(base string) config.Config {
	return config.Config{
		SheetBase:   base,
		PollSeconds: 1,
		GIDs: map[string]string{
			"programa":      "0",
			"novedades":     "1",
			"biblioteca":    "2",
			"lugares":       "3",
			"participantes": "4",
			"preguntas":     "5",
		},
	}
}

func sheetServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("gid") {
		case "0":
			_, _ = w.Write([]byte("dia,hora,titulo\nViernes,5:00 p. m.,Apertura\n"))
		case "4":
			_, _ = w.Write([]byte("nombre,presente\nAna,sí\n"))
		default:
			_, _ = w.Write([]byte("titulo\nfila\n"))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestStartSourcesPopulatesStores(t *testing.T) {
	srv := sheetServer(t)
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := sheet.NewClient(store, func() bool { return true })
	stores := NewStores()
	pollers := startSources(ctx, testConfig(srv.URL+"/pub"), client, stores, 0)
	defer pollers.Stop()

	waitFor(t, "schedule snapshot", func() bool { return stores.Sessions.Snapshot().HasData })
	waitFor(t, "participants snapshot", func() bool { return stores.Participants.Snapshot().HasData })

	sessions := stores.Sessions.Snapshot().Rows
	if len(sessions) != 1 || sessions[0].Title != "Apertura" {
		t.Fatalf("sessions = %#v, want Apertura", sessions)
	}
	if p := stores.Participants.Snapshot().Rows; len(p) != 1 || !p[0].Present {
		t.Fatalf("participants = %#v, want Ana present", p)
	}
}

func TestStartSourcesOfflineServesCache(t *testing.T) {
	srv := sheetServer(t)
	path := filepath.Join(t.TempDir(), "cache.db")

	// Warm the cache online.
	store, err := cache.Open(path)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	client := sheet.NewClient(store, func() bool { return true })
	stores := NewStores()
	pollers := startSources(ctx, testConfig(srv.URL+"/pub"), client, stores, 0)
	waitFor(t, "warm snapshot", func() bool { return stores.Sessions.Snapshot().HasData })
	pollers.Stop()
	cancel()
	_ = store.Close()

	// Cold start offline: the initial load must succeed silently from cache.
	store, err = cache.Open(path)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	client = sheet.NewClient(store, func() bool { return false })
	stores = NewStores()
	pollers = startSources(ctx, testConfig(srv.URL+"/pub"), client, stores, 0)
	defer pollers.Stop()

	waitFor(t, "cached snapshot", func() bool { return stores.Sessions.Snapshot().HasData })
	snap := stores.Sessions.Snapshot()
	if snap.LastError != nil {
		t.Fatalf("LastError = %v after cache hit, want nil", snap.LastError)
	}
	if snap.Rows[0].Title != "Apertura" {
		t.Fatalf("cached rows = %#v, want Apertura", snap.Rows)
	}
}

func TestStartSourcesOfflineNoCacheSurfacesError(t *testing.T) {
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := sheet.NewClient(store, func() bool { return false })
	stores := NewStores()
	pollers := startSources(ctx, testConfig("https://x.test/pub"), client, stores, 0)
	defer pollers.Stop()

	waitFor(t, "initial error", func() bool { return stores.Sessions.Snapshot().LastError != nil })
	snap := stores.Sessions.Snapshot()
	if snap.HasData {
		t.Fatalf("snapshot has data with empty cache: %#v", snap.Rows)
	}
	var noData *sheet.NoCachedDataError
	if !errors.As(snap.LastError, &noData) {
		t.Fatalf("LastError = %v, want *NoCachedDataError", snap.LastError)
	}
}
