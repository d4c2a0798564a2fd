package notifier

import (
	"log/slog"
	"sync"
	"time"
)

// Runner drives the controller at a fixed cadence from a background
// goroutine. Idle sampling failures degrade to "assume active" and a panic
// in one poll is logged and swallowed so the loop survives to the next tick.
type Runner struct {
	mu         sync.Mutex
	controller *Controller
	sampler    IdleSampler
	source     ScheduleSource
	logger     *slog.Logger
	interval   time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}
	running    bool
	paused     bool
}

// NewRunner creates a runner polling at the given interval.
func NewRunner(controller *Controller, sampler IdleSampler, source ScheduleSource, interval time.Duration, logger *slog.Logger) *Runner {
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		controller: controller,
		sampler:    sampler,
		source:     source,
		logger:     logger.With("component", "poller"),
		interval:   interval,
	}
}

// Start launches the poll loop.
func (runner *Runner) Start() {
	runner.mu.Lock()
	if runner.running {
		runner.mu.Unlock()
		return
	}
	runner.running = true
	runner.paused = false
	runner.stopCh = make(chan struct{})
	runner.doneCh = make(chan struct{})
	runner.mu.Unlock()

	go runner.run()
}

// Stop terminates the poll loop and synchronously tears down every live
// surface. Idempotent.
func (runner *Runner) Stop() {
	runner.mu.Lock()
	if !runner.running {
		runner.mu.Unlock()
		return
	}
	runner.running = false
	close(runner.stopCh)
	done := runner.doneCh
	runner.mu.Unlock()

	<-done
	runner.controller.Close()
}

// Pause suspends polling and clears any visible surfaces.
func (runner *Runner) Pause() {
	runner.mu.Lock()
	if runner.paused {
		runner.mu.Unlock()
		return
	}
	runner.paused = true
	runner.mu.Unlock()

	runner.controller.Close()
}

// Resume continues polling after a pause.
func (runner *Runner) Resume() {
	runner.mu.Lock()
	runner.paused = false
	runner.mu.Unlock()
}

// Paused reports whether polling is currently suspended.
func (runner *Runner) Paused() bool {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	return runner.paused
}

func (runner *Runner) run() {
	defer close(runner.doneCh)

	ticker := time.NewTicker(runner.interval)
	defer ticker.Stop()

	for {
		select {
		case <-runner.stopCh:
			return
		case tickTime := <-ticker.C:
			runner.mu.Lock()
			paused := runner.paused
			runner.mu.Unlock()
			if paused {
				continue
			}
			runner.pollOnce(tickTime)
		}
	}
}

func (runner *Runner) pollOnce(now time.Time) {
	defer func() {
		if recovered := recover(); recovered != nil {
			runner.logger.Error("poll panicked", "panic", recovered)
		}
	}()

	idleDuration, err := runner.sampler.IdleDuration()
	if err != nil {
		// Assume active: a zero idle duration can never flicker the
		// idle overlay in.
		runner.logger.Debug("idle sample failed", "error", err)
		idleDuration = 0
	}

	runner.controller.Poll(now, idleDuration, runner.source.Current())
}
