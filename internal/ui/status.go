package ui

import (
	"errors"
	"fmt"

	"encuentro/internal/sheet"
)

func (vm *viewModel) setStatus(text string) {
	vm.statusView.SetText(text)
}

// statusLine produces the one-line source status. Initial-load failures get
// distinct copy per error class; once data is on screen, later failures only
// soften the line to a degraded notice.
func statusLine(source string, initialLoad, hasData bool, lastErr error, offline bool) string {
	switch {
	case initialLoad:
		return fmt.Sprintf("[cadetblue]%s: cargando…[-]", source)
	case lastErr != nil && !hasData:
		return fmt.Sprintf("[indianred]%s: %s[-]", source, errorCopy(lastErr))
	case lastErr != nil || offline:
		return fmt.Sprintf("[orange]%s: sin conexión, mostrando datos guardados[-]", source)
	default:
		return fmt.Sprintf("[green]%s: al día[-]", source)
	}
}

// errorCopy maps the fetch error taxonomy onto user-facing Spanish copy.
func errorCopy(err error) string {
	var noData *sheet.NoCachedDataError
	if errors.As(err, &noData) {
		return "sin conexión y sin datos guardados; conectate a internet y reintentá con <r>"
	}
	var netErr *sheet.NetworkError
	if errors.As(err, &netErr) {
		return "no se pudo descargar la planilla; reintentá con <r>"
	}
	return "error inesperado: " + err.Error()
}
