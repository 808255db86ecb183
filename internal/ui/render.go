package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"encuentro/internal/program"
	"encuentro/internal/sheet"
	"encuentro/internal/state"
)

// update re-renders the active view from its store. A view is only rebuilt
// when its store changed since the last render, so an unchanged snapshot
// never causes a redraw flicker.
func (vm *viewModel) update() {
	switch vm.currentView {
	case viewPrograma:
		snap := vm.options.Sessions.Snapshot()
		if vm.maybeRender(viewPrograma, snap.LastUpdated, snap.InitialLoad) {
			vm.renderSchedule(snap)
		}
		vm.setStatus(statusLine(viewNames[viewPrograma], snap.InitialLoad, snap.HasData, snap.LastError, snap.IsOffline()))
	case viewNovedades:
		renderInto(vm, viewNovedades, vm.options.Posts,
			[]string{"Título", "Bajada"},
			func(p sheet.Post) []string {
				title := p.Title
				if p.Pinned {
					title = "★ " + title
				}
				return []string{title, p.Body}
			})
	case viewBiblioteca:
		renderInto(vm, viewBiblioteca, vm.options.Books,
			[]string{"Título", "Autor", "Categoría"},
			func(b sheet.BookEntry) []string { return []string{b.Title, b.Author, b.Category} })
	case viewLugares:
		renderInto(vm, viewLugares, vm.options.Places,
			[]string{"Lugar", "Descripción"},
			func(p sheet.Place) []string { return []string{p.Name, p.Description} })
	case viewParticipantes:
		renderInto(vm, viewParticipantes, vm.options.Participants,
			[]string{"Nombre", "Grupo", "Rol", "Presente"},
			func(p sheet.Participant) []string {
				present := ""
				if p.Present {
					present = "sí"
				}
				return []string{p.Name, p.Group, p.Role, present}
			})
	case viewPreguntas:
		renderInto(vm, viewPreguntas, vm.options.FAQs,
			[]string{"Pregunta", "Respuesta"},
			func(f sheet.FAQ) []string { return []string{f.Question, f.Answer} })
	}
}

// maybeRender records the store timestamp and reports whether the view needs
// rebuilding.
func (vm *viewModel) maybeRender(view int, updated time.Time, initial bool) bool {
	if !initial && updated.Equal(vm.rendered[view]) {
		return false
	}
	vm.rendered[view] = updated
	return true
}

// renderInto fills a view's table from its store snapshot and refreshes the
// status line.
func renderInto[T any](vm *viewModel, view int, store *state.Store[T], headers []string, cells func(T) []string) {
	snap := store.Snapshot()
	vm.setStatus(statusLine(viewNames[view], snap.InitialLoad, snap.HasData, snap.LastError, snap.IsOffline()))
	if !vm.maybeRender(view, snap.LastUpdated, snap.InitialLoad) {
		return
	}

	table := vm.tables[view]
	table.Clear()
	for col, h := range headers {
		table.SetCell(0, col, tview.NewTableCell("[::b]"+h+"[-]").
			SetSelectable(false).
			SetTextColor(tcell.ColorSkyblue).
			SetExpansion(1))
	}
	for i, row := range snap.Rows {
		for col, text := range cells(row) {
			table.SetCell(i+1, col, tview.NewTableCell(tview.Escape(text)).SetExpansion(1))
		}
	}
}

// renderSchedule shows the day-grouped program with the ahora/próximo header
// derived from the injected clock.
func (vm *viewModel) renderSchedule(snap state.Snapshot[sheet.Session]) {
	if snap.InitialLoad {
		vm.scheduleView.SetText("[cadetblue]Cargando programa…[-]")
		return
	}
	if !snap.HasData {
		vm.scheduleView.SetText("[indianred]Sin datos del programa.[-]")
		return
	}

	now := vm.options.Now()
	sel := program.CurrentNext(snap.Rows, now)

	var b string
	if sel.Current != nil {
		b += fmt.Sprintf("[green]Ahora:[-] %s (%s)\n", tview.Escape(sel.Current.Title), tview.Escape(sel.Current.Hour))
	}
	if sel.Next != nil {
		b += fmt.Sprintf("[yellow]Próximo:[-] %s — %s %s\n", tview.Escape(sel.Next.Title), tview.Escape(sel.Next.Day), tview.Escape(sel.Next.Hour))
	}
	if b != "" {
		b += "\n"
	}

	grouped := program.GroupByDay(program.Sort(snap.Rows))
	for _, day := range grouped.Keys {
		b += fmt.Sprintf("[::b]%s[::-]\n", tview.Escape(day))
		for _, s := range grouped.Groups[day] {
			line := fmt.Sprintf("  %s  %s", s.Hour, s.Title)
			if s.Place != "" {
				line += " · " + s.Place
			}
			if s.Featured {
				line = "[orange]" + tview.Escape(line) + "[-]"
			} else {
				line = tview.Escape(line)
			}
			b += line + "\n"
		}
		b += "\n"
	}
	vm.scheduleView.SetText(b)
}
