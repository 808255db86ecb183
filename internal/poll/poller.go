// Package poll owns the per-source refresh loop: fetch, parse, diff against
// the previous snapshot, publish only on change. Initial-load failures are
// surfaced to the caller; background failures are logged and the last good
// snapshot stays authoritative.
package poll

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"encuentro/internal/sheet"
)

// DefaultInterval suits the content feeds and the schedule.
// ParticipantsInterval is used for the larger participant list.
const (
	DefaultInterval      = 30 * time.Second
	ParticipantsInterval = 60 * time.Second
)

// Fetcher resolves a URL to its current payload, from network or cache.
// Implemented by *sheet.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

var _ Fetcher = (*sheet.Client)(nil)

// Config wires one Poller to its data source and its sink.
type Config[T comparable] struct {
	Name     string
	URL      string
	Interval time.Duration
	Fetch    Fetcher
	MapRows  func(raw string) []T // payload → canonical rows
	// OnSnapshot receives every accepted (changed) snapshot. OnError receives
	// initial-load and manual-reload failures only.
	OnSnapshot func(rows []T)
	OnError    func(err error)
	Now        func() time.Time
}

// Poller drives the refresh loop for a single data source. Row types are
// flat comparable structs, so snapshots diff with slices.Equal.
type Poller[T comparable] struct {
	cfg    Config[T]
	cancel context.CancelFunc

	mu        sync.Mutex
	last      []T
	published bool
	attempted bool
	stopped   bool
}

// New builds a Poller from cfg, applying interval and clock defaults.
func New[T comparable](cfg Config[T]) *Poller[T] {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Poller[T]{cfg: cfg}
}

// Start launches the loop: an immediate tick, then one per interval, until
// ctx is cancelled or Stop is called. It returns immediately.
func (p *Poller[T]) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	go func() {
		ticker := time.NewTicker(p.cfg.Interval)
		defer ticker.Stop()

		for {
			p.tick(ctx, p.cfg.URL, false)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop ends the loop. An in-flight fetch is not interrupted; its late result
// is discarded when it lands.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Refresh runs one manual reload in the background. It bypasses intermediate
// caches with a cache-buster and re-enters initial-load error semantics, so
// a failed retry is shown to the user rather than swallowed.
func (p *Poller[T]) Refresh(ctx context.Context) {
	go p.tick(ctx, sheet.WithCacheBuster(p.cfg.URL, p.cfg.Now()), true)
}

// tick runs one fetch-parse-diff-publish cycle. The timer fires regardless
// of fetch duration, so ticks may overlap; whichever completes later wins,
// which is the required most-recently-completed-is-authoritative order.
func (p *Poller[T]) tick(ctx context.Context, url string, surfaceErrors bool) {
	payload, err := p.cfg.Fetch.Fetch(ctx, url)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}

	if err != nil {
		initial := !p.attempted
		p.attempted = true
		if initial || surfaceErrors {
			p.onError(err)
			return
		}
		log.Printf("%s poll failed: %v", p.cfg.Name, err)
		return
	}
	p.attempted = true

	rows := p.cfg.MapRows(payload)
	if p.published && slices.Equal(p.last, rows) {
		return
	}
	p.last = slices.Clone(rows)
	p.published = true
	if p.cfg.OnSnapshot != nil {
		p.cfg.OnSnapshot(rows)
	}
}

func (p *Poller[T]) onError(err error) {
	if p.cfg.OnError != nil {
		p.cfg.OnError(err)
		return
	}
	log.Printf("%s initial load failed: %v", p.cfg.Name, err)
}
