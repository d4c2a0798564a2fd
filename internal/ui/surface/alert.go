package surface

import (
	"image/color"
	"sync"
	"time"

	"vigil/internal/core/notifier"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// alertLifetime is how long a scheduled message stays up before
// auto-dismissing.
const alertLifetime = 12 * time.Second

var (
	alertBackground   = color.NRGBA{R: 28, G: 34, B: 48, A: 235}
	successBackground = color.NRGBA{R: 26, G: 74, B: 42, A: 235}
)

// alertSurface is a transient scheduled message window.
type alertSurface struct {
	dispatcher notifier.Dispatcher
	params     notifier.AlertParams

	window       fyne.Window
	dismissTimer *time.Timer
	closeOnce    sync.Once
}

func (alert *alertSurface) build(app fyne.App) {
	window := newUndecoratedWindow(app, "Vigil")

	fill := alertBackground
	if alert.params.Celebrate {
		fill = successBackground
	}
	background := canvas.NewRectangle(fill)

	label := canvas.NewText(alert.params.Label, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	label.Alignment = fyne.TextAlignCenter
	label.TextStyle = fyne.TextStyle{Bold: alert.params.Celebrate}
	label.TextSize = 18

	window.SetContent(container.NewStack(background, container.NewCenter(label)))
	window.Resize(fyne.NewSize(360, 110))
	window.CenterOnScreen()
	window.Show()

	alert.window = window
}

// Close hides the window. Idempotent; also called by the dismiss timer.
func (alert *alertSurface) Close() {
	alert.closeOnce.Do(func() {
		if alert.dismissTimer != nil {
			alert.dismissTimer.Stop()
		}
		alert.dispatcher.Do(func() {
			alert.window.Close()
		})
	})
}
