package surface

import (
	"context"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"vigil/internal/core/notifier"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

const (
	// fadeGraceDelay is how long the idle window stays fully transparent
	// before the fade begins; a user who comes back quickly never sees it.
	fadeGraceDelay = 1500 * time.Millisecond
	fadeDuration   = 2 * time.Second
	fadeTick       = 50 * time.Millisecond

	idleBackgroundAlpha = uint8(215)
)

var (
	idleTextColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	alarmTintColor = color.NRGBA{R: 140, G: 32, B: 32, A: idleBackgroundAlpha}
)

// idleSurface is the idle reminder window. It owns its fade-in and alarm
// timing; the controller only creates and closes it.
type idleSurface struct {
	dispatcher notifier.Dispatcher
	logger     *slog.Logger
	params     notifier.IdleParams

	window     fyne.Window
	background *canvas.Rectangle
	message    *canvas.Text

	cancel    context.CancelFunc
	closeOnce sync.Once
}

func (idle *idleSurface) build(app fyne.App) {
	window := newUndecoratedWindow(app, "Vigil")

	background := canvas.NewRectangle(color.NRGBA{R: 16, G: 16, B: 24, A: 0})
	message := canvas.NewText(idle.params.Message, idleTextColor)
	message.Alignment = fyne.TextAlignCenter
	message.TextStyle = fyne.TextStyle{Bold: true}
	message.TextSize = 22

	window.SetContent(container.NewStack(background, container.NewCenter(message)))
	window.Resize(fyne.NewSize(420, 160))
	window.CenterOnScreen()
	window.Show()

	idle.window = window
	idle.background = background
	idle.message = message
}

// runEffects drives the fade-in and the alarm from a single clock: both are
// pure functions of time since the fade started, so they cannot drift apart.
func (idle *idleSurface) runEffects(ctx context.Context) {
	if !sleepWithContext(ctx, fadeGraceDelay) {
		return
	}

	fadeStartedAt := time.Now()
	ticker := time.NewTicker(fadeTick)
	defer ticker.Stop()

	alarmFired := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		elapsed := time.Since(fadeStartedAt)
		alpha := fadeAlpha(elapsed)
		idle.dispatcher.Do(func() {
			idle.background.FillColor = color.NRGBA{R: 16, G: 16, B: 24, A: alpha}
			idle.background.Refresh()
		})

		if !alarmFired && idle.params.AlarmAfter > 0 && elapsed >= idle.params.AlarmAfter {
			alarmFired = true
			idle.fireAlarm()
		}
	}
}

func (idle *idleSurface) fireAlarm() {
	idle.logger.Info("idle alarm", "sound", idle.params.AlarmSound)
	idle.dispatcher.Do(func() {
		idle.background.FillColor = alarmTintColor
		idle.background.Refresh()
		idle.window.RequestFocus()
	})
}

// Close hides the window and stops the effect clock. Idempotent.
func (idle *idleSurface) Close() {
	idle.closeOnce.Do(func() {
		if idle.cancel != nil {
			idle.cancel()
		}
		idle.dispatcher.Do(func() {
			idle.window.Close()
		})
	})
}

func fadeAlpha(elapsed time.Duration) uint8 {
	if elapsed >= fadeDuration {
		return idleBackgroundAlpha
	}
	progress := float64(elapsed) / float64(fadeDuration)
	return uint8(progress * float64(idleBackgroundAlpha))
}
