package app

import (
	"context"
	"log"
	"time"

	"encuentro/internal/config"
	"encuentro/internal/poll"
	"encuentro/internal/sheet"
	"encuentro/internal/state"
)

// Stores aggregates the per-source snapshot stores the UI reads. Each source
// has its own store and cache key; pollers never contend with each other.
type Stores struct {
	Sessions     *state.Store[sheet.Session]
	Posts        *state.Store[sheet.Post]
	Books        *state.Store[sheet.BookEntry]
	Places       *state.Store[sheet.Place]
	Participants *state.Store[sheet.Participant]
	FAQs         *state.Store[sheet.FAQ]
}

// NewStores builds one empty store per data source.
func NewStores() *Stores {
	return &Stores{
		Sessions:     &state.Store[sheet.Session]{},
		Posts:        &state.Store[sheet.Post]{},
		Books:        &state.Store[sheet.BookEntry]{},
		Places:       &state.Store[sheet.Place]{},
		Participants: &state.Store[sheet.Participant]{},
		FAQs:         &state.Store[sheet.FAQ]{},
	}
}

// Pollers owns the running per-source pollers.
type Pollers struct {
	refresh []func(context.Context)
	stop    []func()
}

// Refresh triggers a manual reload on every source.
func (p *Pollers) Refresh(ctx context.Context) {
	for _, fn := range p.refresh {
		fn(ctx)
	}
}

// Stop tears every poller down. In-flight fetches resolve and are discarded.
func (p *Pollers) Stop() {
	for _, fn := range p.stop {
		fn()
	}
}

// startSources starts one poller per data source against its CSV export URL.
// pollEvery overrides every source's interval when positive.
func startSources(ctx context.Context, cfg config.Config, client *sheet.Client, stores *Stores, pollEvery int) *Pollers {
	base := poll.DefaultInterval
	participants := poll.ParticipantsInterval
	if cfg.PollSeconds > 0 {
		base = time.Duration(cfg.PollSeconds) * time.Second
	}
	if cfg.ParticipantsPollSeconds > 0 {
		participants = time.Duration(cfg.ParticipantsPollSeconds) * time.Second
	}
	if pollEvery > 0 {
		base = time.Duration(pollEvery) * time.Second
		participants = base
	}

	p := &Pollers{}
	startSource(ctx, p, cfg, client, "programa", base, stores.Sessions, sheet.MapSession)
	startSource(ctx, p, cfg, client, "novedades", base, stores.Posts, sheet.MapPost)
	startSource(ctx, p, cfg, client, "biblioteca", base, stores.Books, sheet.MapBookEntry)
	startSource(ctx, p, cfg, client, "lugares", base, stores.Places, sheet.MapPlace)
	startSource(ctx, p, cfg, client, "participantes", participants, stores.Participants, sheet.MapParticipant)
	startSource(ctx, p, cfg, client, "preguntas", base, stores.FAQs, sheet.MapFAQ)
	return p
}

func startSource[T comparable](
	ctx context.Context,
	pollers *Pollers,
	cfg config.Config,
	client *sheet.Client,
	name string,
	interval time.Duration,
	store *state.Store[T],
	mapRow func(sheet.Record) T,
) {
	url, err := cfg.SourceURL(name)
	if err != nil {
		// A missing gid disables one source, not the whole app.
		log.Printf("source %s disabled: %v", name, err)
		return
	}
	p := poll.New(poll.Config[T]{
		Name:     name,
		URL:      url,
		Interval: interval,
		Fetch:    client,
		MapRows: func(raw string) []T {
			return sheet.MapRows(raw, mapRow)
		},
		OnSnapshot: func(rows []T) { store.Update(rows, nil) },
		OnError:    func(err error) { store.Update(nil, err) },
	})
	p.Start(ctx)
	pollers.refresh = append(pollers.refresh, p.Refresh)
	pollers.stop = append(pollers.stop, p.Stop)
}
