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

var vignetteBaseColor = color.NRGBA{R: 96, G: 168, B: 120, A: 255}

// vignetteSurface is the engagement overlay: a frame whose thickness and
// opacity grow with the active streak, then cycle through colors once growth
// is pinned at maximum. Update is fire-and-forget; ResetGrowth and Close
// block so the controller never re-shows over a half-torn-down overlay.
type vignetteSurface struct {
	dispatcher notifier.Dispatcher

	window fyne.Window
	frame  *canvas.Rectangle

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func (vignette *vignetteSurface) build(app fyne.App) {
	window := newUndecoratedWindow(app, "Vigil")

	frame := canvas.NewRectangle(color.Transparent)
	frame.StrokeColor = withAlpha(vignetteBaseColor, 0)
	frame.StrokeWidth = 1

	window.SetContent(container.NewStack(frame))
	window.Resize(fyne.NewSize(520, 320))
	window.CenterOnScreen()
	window.Show()

	vignette.window = window
	vignette.frame = frame
}

// Update applies the growth contract for one poll tick.
func (vignette *vignetteSurface) Update(opacity float64, sizePx int, colorCycle float64) {
	vignette.mu.Lock()
	if vignette.closed {
		vignette.mu.Unlock()
		return
	}
	vignette.mu.Unlock()

	alpha := alphaFromOpacity(opacity)
	vignette.dispatcher.Do(func() {
		stroke := rainbowColor(withAlpha(vignetteBaseColor, alpha), colorCycle, time.Now())
		vignette.frame.StrokeColor = stroke
		vignette.frame.StrokeWidth = float32(sizePx)
		vignette.frame.Refresh()
		vignette.applyNativeOpacity(alpha)
	})
}

// ResetGrowth shrinks the overlay back to its minimum, blocking until the
// presentation thread applied it.
func (vignette *vignetteSurface) ResetGrowth() {
	vignette.mu.Lock()
	if vignette.closed {
		vignette.mu.Unlock()
		return
	}
	vignette.mu.Unlock()

	vignette.dispatcher.DoWait(func() {
		vignette.frame.StrokeColor = withAlpha(vignetteBaseColor, 0)
		vignette.frame.StrokeWidth = 1
		vignette.frame.Refresh()
	})
}

// Close destroys the window, blocking until it is gone. Idempotent.
func (vignette *vignetteSurface) Close() {
	vignette.closeOnce.Do(func() {
		vignette.mu.Lock()
		vignette.closed = true
		vignette.mu.Unlock()

		vignette.dispatcher.DoWait(func() {
			vignette.window.Close()
		})
	})
}

func withAlpha(base color.NRGBA, alpha uint8) color.NRGBA {
	base.A = alpha
	return base
}

func alphaFromOpacity(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}
