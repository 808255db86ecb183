// Package ui renders the latest source snapshots in a tview terminal
// interface. It is a pure sink: it reads the stores on a timer and never
// talks to the network itself, except for forwarding participant
// confirmations to the write webhook.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"encuentro/internal/prefs"
	"encuentro/internal/sheet"
	"encuentro/internal/state"
)

const defaultUIInterval = time.Second

// Options configure the UI runtime. One store per data source; Reload
// triggers a manual refresh of every poller.
type Options struct {
	Context      context.Context
	Sessions     *state.Store[sheet.Session]
	Posts        *state.Store[sheet.Post]
	Books        *state.Store[sheet.BookEntry]
	Places       *state.Store[sheet.Place]
	Participants *state.Store[sheet.Participant]
	FAQs         *state.Store[sheet.FAQ]
	Reload       func()
	Writer       *sheet.Writer
	Prefs        prefs.Prefs
	PrefsPath    string
	RefreshEvery time.Duration
	Now          func() time.Time
}

// Run wires up the tview components and blocks until ctx is cancelled or the
// user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Sessions == nil {
		return fmt.Errorf("ui requires the data stores")
	}
	if opts.Context == nil {
		opts.Context = ctx
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	app := tview.NewApplication()
	model := newViewModel(app, opts)

	refreshEvery := opts.RefreshEvery
	if refreshEvery <= 0 {
		refreshEvery = defaultUIInterval
	}

	go func() {
		ticker := time.NewTicker(refreshEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				app.QueueUpdateDraw(func() { app.Stop() })
				return
			case <-ticker.C:
				app.QueueUpdateDraw(func() { model.update() })
			}
		}
	}()

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			app.Stop()
			return nil
		}
		if model.root.HasPage("modal") {
			return event
		}
		switch event.Rune() {
		case '1', '2', '3', '4', '5', '6':
			model.showView(int(event.Rune() - '1'))
			return nil
		case 'r':
			model.reload()
			return nil
		case 'c':
			model.confirmParticipant()
			return nil
		case 'w':
			model.dismissWelcome()
			return nil
		case 'h', '?':
			model.showHelp()
			return nil
		case 'q':
			app.Stop()
			return nil
		}
		return event
	})

	model.update()
	return app.Run()
}
