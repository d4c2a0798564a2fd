// Package timelineview renders the day's schedule as a strip of colored
// buckets, refreshed on a ticker so the current bucket blinks and past
// buckets darken as the day moves on.
package timelineview

import (
	"image/color"
	"sync"
	"time"

	"vigil/internal/core/notifier"
	"vigil/internal/core/timeline"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

const (
	refreshInterval = time.Second

	segmentWidth  = float32(14)
	segmentHeight = float32(28)
	labelHeight   = float32(18)
)

var (
	labelColor       = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	passedLabelColor = color.NRGBA{R: 130, G: 130, B: 130, A: 255}
)

// Window shows the schedule timeline.
type Window struct {
	mu         sync.Mutex
	window     fyne.Window
	dispatcher notifier.Dispatcher
	source     notifier.ScheduleSource
	content    *fyne.Container
	stopCh     chan struct{}
	running    bool
	blinkOn    bool
}

// New creates a timeline window fed by the given schedule source.
func New(app fyne.App, dispatcher notifier.Dispatcher, source notifier.ScheduleSource) *Window {
	window := app.NewWindow("Vigil Timeline")
	content := container.NewWithoutLayout()
	window.SetContent(content)
	window.Resize(fyne.NewSize(900, 90))
	window.CenterOnScreen()

	view := &Window{
		window:     window,
		dispatcher: dispatcher,
		source:     source,
		content:    content,
	}
	window.SetCloseIntercept(func() {
		view.Hide()
	})
	return view
}

// Show displays the window and starts the refresh loop.
func (view *Window) Show() {
	view.mu.Lock()
	if !view.running {
		view.running = true
		view.stopCh = make(chan struct{})
		go view.run(view.stopCh)
	}
	view.mu.Unlock()

	view.window.Show()
}

// Hide stops refreshing and hides the window.
func (view *Window) Hide() {
	view.mu.Lock()
	if view.running {
		view.running = false
		close(view.stopCh)
	}
	view.mu.Unlock()

	view.window.Hide()
}

func (view *Window) run(stopCh chan struct{}) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	view.refresh()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			view.refresh()
		}
	}
}

func (view *Window) refresh() {
	view.mu.Lock()
	view.blinkOn = !view.blinkOn
	blinkOn := view.blinkOn
	view.mu.Unlock()

	schedule := view.source.Current()
	view.dispatcher.Do(func() {
		view.content.RemoveAll()
		if schedule == nil {
			placeholder := canvas.NewText("No schedule loaded", passedLabelColor)
			placeholder.Move(fyne.NewPos(12, labelHeight))
			view.content.Add(placeholder)
			view.content.Refresh()
			return
		}

		segments := timeline.Generate(schedule, time.Now(), blinkOn)
		for index, segment := range segments {
			x := float32(index) * segmentWidth

			rect := canvas.NewRectangle(segment.Color)
			rect.Move(fyne.NewPos(x, labelHeight+4))
			rect.Resize(fyne.NewSize(segmentWidth-1, segmentHeight))
			view.content.Add(rect)

			if segment.Label == "" {
				continue
			}
			label := canvas.NewText(segment.Label, labelColor)
			if segment.LabelPassed {
				label.Color = passedLabelColor
				label.TextStyle = fyne.TextStyle{Italic: true}
			}
			label.TextSize = 11
			label.Move(fyne.NewPos(x, 2))
			view.content.Add(label)
		}
		view.content.Refresh()
	})
}
