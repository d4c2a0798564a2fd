package surface

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vigil/internal/core/notifier"

	"fyne.io/fyne/v2"
)

// Factory builds fyne-backed presentation surfaces. Window construction is
// dispatched to the presentation thread; panics there are caught at the
// dispatch boundary and returned as errors so the poll loop can retry.
type Factory struct {
	app        fyne.App
	dispatcher notifier.Dispatcher
	logger     *slog.Logger
}

// NewFactory creates a surface factory.
func NewFactory(app fyne.App, dispatcher notifier.Dispatcher, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		app:        app,
		dispatcher: dispatcher,
		logger:     logger.With("component", "surface"),
	}
}

// NewIdleSurface shows the idle reminder window.
func (factory *Factory) NewIdleSurface(params notifier.IdleParams) (notifier.Surface, error) {
	idle := &idleSurface{
		dispatcher: factory.dispatcher,
		logger:     factory.logger,
		params:     params,
	}
	if err := factory.buildGuarded(func() { idle.build(factory.app) }); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	idle.cancel = cancel
	go idle.runEffects(ctx)
	return idle, nil
}

// NewAlertSurface shows a scheduled message window.
func (factory *Factory) NewAlertSurface(params notifier.AlertParams) (notifier.Surface, error) {
	alert := &alertSurface{
		dispatcher: factory.dispatcher,
		params:     params,
	}
	if err := factory.buildGuarded(func() { alert.build(factory.app) }); err != nil {
		return nil, err
	}

	alert.dismissTimer = time.AfterFunc(alertLifetime, alert.Close)
	return alert, nil
}

// NewVignetteSurface shows the engagement overlay at its minimum growth.
func (factory *Factory) NewVignetteSurface() (notifier.VignetteSurface, error) {
	vignette := &vignetteSurface{dispatcher: factory.dispatcher}
	if err := factory.buildGuarded(func() { vignette.build(factory.app) }); err != nil {
		return nil, err
	}
	return vignette, nil
}

// buildGuarded runs a window constructor on the presentation thread and
// converts a panic into an error.
func (factory *Factory) buildGuarded(build func()) error {
	var buildErr error
	factory.dispatcher.DoWait(func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				buildErr = fmt.Errorf("surface build panicked: %v", recovered)
			}
		}()
		build()
	})
	return buildErr
}
