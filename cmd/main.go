package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vigil/internal/core/notifier"
	"vigil/internal/platform"
	"vigil/internal/storage"
	"vigil/internal/ui/preferences"
	"vigil/internal/ui/surface"
	"vigil/internal/ui/timelineview"
	"vigil/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/urfave/cli"
)

const appName = "Vigil"

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "vigil"
	cliApp.Usage = "personal activity and notification scheduler"
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "schedule, s",
			Usage: "path to the schedule YAML file",
		},
		cli.StringFlag{
			Name:  "log-level, l",
			Value: "info",
			Usage: "log level: debug, info, warn, error",
		},
		cli.DurationFlag{
			Name:  "poll-interval",
			Usage: "override the poll cadence (e.g. 300ms)",
		},
	}
	cliApp.Action = run

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cliCtx *cli.Context) error {
	logger := newLogger(cliCtx.String("log-level"))
	slog.SetDefault(logger)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings failed, using defaults", "error", err)
	}
	config := settings.NotifierConfig()
	if override := cliCtx.Duration("poll-interval"); override > 0 {
		config.PollInterval = override
	}

	platformService := platform.NewService()
	schedulePath := cliCtx.String("schedule")
	if schedulePath == "" {
		schedulePath, err = defaultSchedulePath(platformService)
		if err != nil {
			return err
		}
	}

	scheduleWatcher := storage.NewScheduleWatcher(schedulePath, logger)
	if err := scheduleWatcher.Start(); err != nil {
		logger.Warn("schedule watching disabled", "error", err)
	}
	defer scheduleWatcher.Stop()

	fyneApp := app.NewWithID("app.vigil")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return fmt.Errorf("system tray unsupported on this platform")
	}

	dispatcher := surface.FyneDispatcher{}
	factory := surface.NewFactory(fyneApp, dispatcher, logger)
	rewards := surface.NewStarPresenter(fyneApp, dispatcher, logger)
	controller := notifier.New(config, factory, rewards, logger)
	runner := notifier.NewRunner(controller, platform.NewIdleProvider(), scheduleWatcher, config.PollInterval, logger)

	timelineWindow := timelineview.New(fyneApp, dispatcher, scheduleWatcher)

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		controller.UpdateConfig(settings.NotifierConfig())
		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.Warn("save settings failed", "error", err)
		}
		applyAutostart(platformService, settings.Autostart, logger)
	})

	var trayManager *tray.Manager
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnShowTimeline: func() {
			timelineWindow.Show()
		},
		OnReloadSchedule: func() {
			go func() {
				if err := scheduleWatcher.Reload(); err != nil {
					logger.Warn("manual schedule reload failed", "error", err)
				}
			}()
		},
		OnTogglePause: func() {
			if runner.Paused() {
				runner.Resume()
				trayManager.SetPaused(false)
			} else {
				runner.Pause()
				trayManager.SetPaused(true)
			}
		},
		OnQuit: func() {
			runner.Stop()
			fyneApp.Quit()
		},
	})
	trayManager.SetStatus("watching")

	go statusLoop(controller, scheduleWatcher, trayManager)

	if settings.ShowTimelineOnStart {
		timelineWindow.Show()
	}

	runner.Start()
	fyneApp.Run()
	runner.Stop()
	return nil
}

// statusLoop keeps the tray status line current.
func statusLoop(controller *notifier.Controller, source notifier.ScheduleSource, trayManager *tray.Manager) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		status := "no schedule"
		if schedule := source.Current(); schedule != nil {
			if schedule.IsCurrentlyTracking(time.Now()) {
				status = fmt.Sprintf("tracking, %d stars", controller.StarCount())
			} else {
				status = "outside tracking window"
			}
		}
		fyne.Do(func() {
			trayManager.SetStatus(status)
		})
	}
}

func defaultSchedulePath(service platform.Service) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve schedule path: %w", err)
	}
	return filepath.Join(configDir, appName, "schedule.yaml"), nil
}

func applyAutostart(service platform.Service, enabled bool, logger *slog.Logger) {
	execPath, err := os.Executable()
	if err != nil {
		logger.Warn("resolve executable for autostart", "error", err)
		return
	}
	if enabled {
		err = service.EnableAutostart(appName, execPath)
	} else {
		err = service.DisableAutostart(appName)
	}
	if err != nil {
		logger.Warn("update autostart", "enabled", enabled, "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
}
