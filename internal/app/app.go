// Package app is the composition root: it wires config, the persistent
// cache, the sheet client, one poller per data source, and the UI.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"encuentro/internal/cache"
	"encuentro/internal/config"
	"encuentro/internal/prefs"
	"encuentro/internal/sheet"
	"encuentro/internal/ui"
)

const sweepEvery = 6 * time.Hour

// Options configure the encuentro application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/encuentro/prefs.toml
	PollEvery  int    // seconds; zero uses the per-source defaults
	Offline    bool   // force cache-only operation
}

// Run boots the TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.SheetBase == "" {
		return fmt.Errorf("no sheet_base configured; set it in the config file")
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	online := sheet.InterfacesOnline
	if opts.Offline || cfg.Offline {
		online = func() bool { return false }
	}
	client := sheet.NewClient(store, online)

	stores := NewStores()
	pollers := startSources(ctx, cfg, client, stores, opts.PollEvery)
	defer pollers.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		defer cancel()
		return ui.Run(ctx, ui.Options{
			Context:      ctx,
			Sessions:     stores.Sessions,
			Posts:        stores.Posts,
			Books:        stores.Books,
			Places:       stores.Places,
			Participants: stores.Participants,
			FAQs:         stores.FAQs,
			Reload:       func() { pollers.Refresh(ctx) },
			Writer:       sheet.NewWriter(cfg.WebhookURL),
			Prefs:        userPrefs,
			PrefsPath:    opts.PrefsPath,
		})
	})
	g.Go(func() error {
		sweepLoop(ctx, store)
		return nil
	})
	return g.Wait()
}

// sweepLoop purges expired cache entries once at startup and then
// periodically, so week-old payloads don't pile up under the lazy expiry.
func sweepLoop(ctx context.Context, store *cache.Store) {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	for {
		store.SweepExpired()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
