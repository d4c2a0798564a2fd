package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"vigil/internal/core/model"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of filesystem events editors produce
// when saving a file.
const reloadDebounce = 200 * time.Millisecond

// ScheduleWatcher keeps an atomically swapped schedule snapshot in sync with
// a YAML file on disk. Current returns nil before the first successful load
// and after a failed reload, which the controller treats as "nothing
// scheduled".
type ScheduleWatcher struct {
	mu       sync.RWMutex
	path     string
	logger   *slog.Logger
	snapshot *model.Schedule
	onReload func(*model.Schedule)

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduleWatcher creates a watcher for the given schedule file.
func NewScheduleWatcher(path string, logger *slog.Logger) *ScheduleWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleWatcher{
		path:   path,
		logger: logger.With("component", "schedule"),
	}
}

// Current returns the latest schedule snapshot, or nil when none is loaded.
func (watcher *ScheduleWatcher) Current() *model.Schedule {
	watcher.mu.RLock()
	defer watcher.mu.RUnlock()
	return watcher.snapshot
}

// SetOnReload registers a callback invoked after every snapshot swap.
func (watcher *ScheduleWatcher) SetOnReload(handler func(*model.Schedule)) {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	watcher.onReload = handler
}

// Reload loads the file immediately and swaps the snapshot. A load failure
// clears the snapshot so stale schedules never linger.
func (watcher *ScheduleWatcher) Reload() error {
	schedule, err := LoadSchedule(watcher.path)
	if err != nil {
		watcher.swap(nil)
		return err
	}
	watcher.swap(schedule)
	return nil
}

// Start performs the initial load and begins watching the schedule file's
// directory. Watching the directory rather than the file survives editors
// that replace files on save.
func (watcher *ScheduleWatcher) Start() error {
	if err := watcher.Reload(); err != nil {
		watcher.logger.Warn("initial schedule load failed", "path", watcher.path, "error", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create schedule watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(watcher.path)); err != nil {
		_ = fsWatcher.Close()
		return fmt.Errorf("watch schedule directory: %w", err)
	}

	watcher.watcher = fsWatcher
	watcher.stopCh = make(chan struct{})
	watcher.doneCh = make(chan struct{})
	go watcher.run()
	return nil
}

// Stop terminates the watch loop. Safe to call when Start never ran.
func (watcher *ScheduleWatcher) Stop() {
	if watcher.watcher == nil {
		return
	}
	close(watcher.stopCh)
	_ = watcher.watcher.Close()
	<-watcher.doneCh
	watcher.watcher = nil
}

func (watcher *ScheduleWatcher) run() {
	defer close(watcher.doneCh)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-watcher.stopCh:
			return
		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(watcher.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				if err := watcher.Reload(); err != nil {
					watcher.logger.Warn("schedule reload failed", "path", watcher.path, "error", err)
					return
				}
				watcher.logger.Info("schedule reloaded", "path", watcher.path)
			})
		case err, ok := <-watcher.watcher.Errors:
			if !ok {
				return
			}
			watcher.logger.Warn("schedule watch error", "error", err)
		}
	}
}

func (watcher *ScheduleWatcher) swap(schedule *model.Schedule) {
	watcher.mu.Lock()
	watcher.snapshot = schedule
	handler := watcher.onReload
	watcher.mu.Unlock()

	if handler != nil {
		handler(schedule)
	}
}
