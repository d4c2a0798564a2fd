package surface

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"vigil/internal/core/notifier"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// starLifetime is how long a single star popup stays visible.
const starLifetime = 2500 * time.Millisecond

var starColor = color.NRGBA{R: 240, G: 204, B: 70, A: 255}

// StarPresenter pops up one small star window per earned reward. The
// controller supplies a delay per star so they trickle in rather than all
// landing on the same frame.
type StarPresenter struct {
	app        fyne.App
	dispatcher notifier.Dispatcher
	logger     *slog.Logger
}

// NewStarPresenter creates a reward presenter.
func NewStarPresenter(app fyne.App, dispatcher notifier.Dispatcher, logger *slog.Logger) *StarPresenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &StarPresenter{
		app:        app,
		dispatcher: dispatcher,
		logger:     logger.With("component", "rewards"),
	}
}

// ShowStars schedules count star popups, the i-th after delays[i].
func (presenter *StarPresenter) ShowStars(count int, delays []time.Duration) {
	presenter.logger.Debug("show rewards", "count", count)
	for index := 0; index < count && index < len(delays); index++ {
		starNumber := index + 1
		time.AfterFunc(delays[index], func() {
			presenter.dispatcher.Do(func() {
				presenter.popStar(starNumber, count)
			})
		})
	}
}

func (presenter *StarPresenter) popStar(starNumber, total int) {
	window := newUndecoratedWindow(presenter.app, "Vigil")

	star := canvas.NewText("★", starColor)
	star.Alignment = fyne.TextAlignCenter
	star.TextSize = 34

	counter := canvas.NewText(fmt.Sprintf("%d of %d", starNumber, total), color.NRGBA{R: 255, G: 255, B: 255, A: 200})
	counter.Alignment = fyne.TextAlignCenter
	counter.TextSize = 12

	background := canvas.NewRectangle(color.NRGBA{R: 24, G: 28, B: 40, A: 230})
	window.SetContent(container.NewStack(background, container.NewVBox(star, counter)))
	window.Resize(fyne.NewSize(96, 96))
	window.CenterOnScreen()
	window.Show()

	time.AfterFunc(starLifetime, func() {
		presenter.dispatcher.Do(window.Close)
	})
}
