package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"encuentro/internal/prefs"
	"encuentro/internal/sheet"
)

// view indices in display order; they map onto the 1-6 keys.
const (
	viewPrograma = iota
	viewNovedades
	viewBiblioteca
	viewLugares
	viewParticipantes
	viewPreguntas
	viewCount
)

var viewNames = [viewCount]string{
	"Programa", "Novedades", "Biblioteca", "Lugares", "Participantes", "Preguntas",
}

type viewModel struct {
	app     *tview.Application
	options Options
	root    *tview.Pages

	statusView  *tview.TextView
	cmdBar      *tview.TextView
	welcomeView *tview.TextView
	mainContent *tview.Pages
	mainLayout  *tview.Flex

	scheduleView *tview.TextView
	tables       [viewCount]*tview.Table

	currentView int
	welcomeGone bool

	// last seen store timestamps, to skip redundant re-renders
	rendered [viewCount]time.Time
}

func newViewModel(app *tview.Application, opts Options) *viewModel {
	vm := &viewModel{app: app, options: opts, welcomeGone: opts.Prefs.WelcomeDismissed}

	vm.statusView = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	vm.cmdBar = tview.NewTextView().SetDynamicColors(true).SetWrap(false)

	vm.welcomeView = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	vm.welcomeView.SetText("[yellow]¡Bienvenido! Los datos se guardan para usarse sin conexión. Pulsa <w> para cerrar este aviso.[-]")

	vm.scheduleView = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	vm.scheduleView.SetBorder(true).SetTitle(" [::b]Programa[::-] ")
	vm.scheduleView.SetBorderColor(tcell.ColorSlateGray)

	vm.mainContent = tview.NewPages()
	vm.mainContent.AddPage(viewNames[viewPrograma], vm.scheduleView, true, true)
	for i := viewNovedades; i < viewCount; i++ {
		table := tview.NewTable()
		table.SetBorder(true).SetTitle(" [::b]" + viewNames[i] + "[::-] ")
		table.SetBorderColor(tcell.ColorSlateGray)
		table.SetSelectable(true, false)
		table.SetFixed(1, 0)
		vm.tables[i] = table
		vm.mainContent.AddPage(viewNames[i], table, true, false)
	}

	vm.mainLayout = tview.NewFlex().SetDirection(tview.FlexRow)
	vm.mainLayout.
		AddItem(vm.statusView, 1, 0, false).
		AddItem(vm.cmdBar, 1, 0, false).
		AddItem(vm.welcomeView, vm.welcomeHeight(), 0, false).
		AddItem(vm.mainContent, 0, 1, true)

	vm.root = tview.NewPages()
	vm.root.AddPage("main", vm.mainLayout, true, true)

	app.SetRoot(vm.root, true)
	vm.setCommandBar()
	return vm
}

func (vm *viewModel) welcomeHeight() int {
	if vm.welcomeGone {
		return 0
	}
	return 1
}

func (vm *viewModel) showView(idx int) {
	if idx < 0 || idx >= viewCount {
		return
	}
	vm.currentView = idx
	vm.mainContent.SwitchToPage(viewNames[idx])
	vm.rendered[idx] = time.Time{} // force a fresh render
	vm.setCommandBar()
	vm.update()
}

func (vm *viewModel) setCommandBar() {
	segments := make([]string, 0, viewCount+3)
	for i, name := range viewNames {
		if i == vm.currentView {
			segments = append(segments, fmt.Sprintf("[#38bdf8]<%d> %s[-]", i+1, name))
			continue
		}
		segments = append(segments, fmt.Sprintf("[#64748b]<%d> %s[-]", i+1, name))
	}
	segments = append(segments, "[#64748b]<r> Recargar[-]")
	if vm.currentView == viewParticipantes {
		segments = append(segments, "[#64748b]<c> Confirmar[-]")
	}
	segments = append(segments, "[#64748b]<q> Salir[-]")
	vm.cmdBar.SetText(strings.Join(segments, "  "))
}

func (vm *viewModel) reload() {
	if vm.options.Reload != nil {
		vm.options.Reload()
	}
}

func (vm *viewModel) dismissWelcome() {
	if vm.welcomeGone {
		return
	}
	vm.welcomeGone = true
	vm.mainLayout.ResizeItem(vm.welcomeView, 0, 0)

	p := vm.options.Prefs
	p.WelcomeDismissed = true
	vm.options.Prefs = p
	if err := prefs.Save(vm.options.PrefsPath, p); err != nil {
		log.Printf("save prefs failed: %v", err)
	}
}

// confirmParticipant posts an attendance confirmation for the selected row.
// The webhook write is fire-and-forget; the flipped flag arrives with the
// next participantes poll, not synchronously.
func (vm *viewModel) confirmParticipant() {
	if vm.currentView != viewParticipantes || vm.options.Writer == nil {
		return
	}
	table := vm.tables[viewParticipantes]
	row, _ := table.GetSelection()
	idx := row - 1 // header row
	snap := vm.options.Participants.Snapshot()
	if idx < 0 || idx >= len(snap.Rows) {
		return
	}
	p := snap.Rows[idx]

	go func() {
		ctx, cancel := context.WithTimeout(vm.options.Context, 15*time.Second)
		defer cancel()
		err := vm.options.Writer.Write(ctx, sheet.WriteRequest{
			Action: sheet.ActionUpdate,
			Sheet:  "participantes",
			Index:  &idx,
			Item:   map[string]any{"nombre": p.Name, "grupo": p.Group, "rol": p.Role, "presente": "sí"},
		})
		if err != nil {
			log.Printf("confirm %s failed: %v", p.Name, err)
		}
	}()
}

func (vm *viewModel) showHelp() {
	help := []struct{ key, desc string }{
		{"1-6", "Cambiar de vista"},
		{"r", "Recargar ahora"},
		{"c", "Confirmar asistencia (Participantes)"},
		{"w", "Cerrar el aviso de bienvenida"},
		{"h/?", "Ayuda"},
		{"q", "Salir"},
	}
	lines := make([]string, 0, len(help))
	for _, cmd := range help {
		lines = append(lines, fmt.Sprintf("[dodgerblue]<%s>[gray] %s", cmd.key, cmd.desc))
	}
	modal := tview.NewModal().SetText(strings.Join(lines, "\n")).AddButtons([]string{"Cerrar"})
	modal.SetDoneFunc(func(int, string) {
		vm.root.RemovePage("modal")
	})
	vm.root.AddPage("modal", modal, true, true)
}
