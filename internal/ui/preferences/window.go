package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)

	idleThreshold *widget.Entry
	rewardCheck   *widget.Entry
	activity      *widget.Entry
	vignetteDelay *widget.Entry
	vignetteStage *widget.Entry
	suppression   *widget.Entry
	opacity       *widget.Slider
	showTimeline  *widget.Check
	autostart     *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Vigil Settings")

	idleThreshold := widget.NewEntry()
	rewardCheck := widget.NewEntry()
	activity := widget.NewEntry()
	vignetteDelay := widget.NewEntry()
	vignetteStage := widget.NewEntry()
	suppression := widget.NewEntry()

	opacity := widget.NewSlider(0.05, 0.8)
	opacity.Step = 0.01

	showTimeline := widget.NewCheck("Show timeline on start", nil)
	autostart := widget.NewCheck("Start Vigil at login", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Idle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Idle after"), idleThreshold, widget.NewLabel("sec")),
		widget.NewLabelWithStyle("Rewards", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Check every"), rewardCheck, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Activity window"), activity, widget.NewLabel("sec")),
		widget.NewLabelWithStyle("Engagement overlay", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Appear after"), vignetteDelay, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Growth stage"), vignetteStage, widget.NewLabel("sec")),
		widget.NewLabel("Maximum opacity"),
		opacity,
		widget.NewLabelWithStyle("Alerts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Suppress repeats for"), suppression, widget.NewLabel("min")),
		showTimeline,
		autostart,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 480))

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		idleThreshold: idleThreshold,
		rewardCheck:   rewardCheck,
		activity:      activity,
		vignetteDelay: vignetteDelay,
		vignetteStage: vignetteStage,
		suppression:   suppression,
		opacity:       opacity,
		showTimeline:  showTimeline,
		autostart:     autostart,
	}
	prefs.applySettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.applySettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.applySettings(settings)
}

func (prefs *Window) applySettings(settings Settings) {
	prefs.idleThreshold.SetText(fmt.Sprintf("%d", int(settings.IdleThreshold.Seconds())))
	prefs.rewardCheck.SetText(fmt.Sprintf("%d", int(settings.RewardCheckInterval.Seconds())))
	prefs.activity.SetText(fmt.Sprintf("%d", int(settings.ActivityWindow.Seconds())))
	prefs.vignetteDelay.SetText(fmt.Sprintf("%d", int(settings.VignetteDelay.Seconds())))
	prefs.vignetteStage.SetText(fmt.Sprintf("%d", int(settings.VignetteStageDuration.Seconds())))
	prefs.suppression.SetText(fmt.Sprintf("%d", int(settings.SuppressionWindow.Minutes())))
	prefs.opacity.Value = settings.VignetteMaxOpacity
	prefs.opacity.Refresh()
	prefs.showTimeline.SetChecked(settings.ShowTimelineOnStart)
	prefs.autostart.SetChecked(settings.Autostart)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if seconds, ok := parsePositiveInt(prefs.idleThreshold.Text); ok {
		settings.IdleThreshold = time.Duration(seconds) * time.Second
	}
	if seconds, ok := parsePositiveInt(prefs.rewardCheck.Text); ok {
		settings.RewardCheckInterval = time.Duration(seconds) * time.Second
	}
	if seconds, ok := parsePositiveInt(prefs.activity.Text); ok {
		settings.ActivityWindow = time.Duration(seconds) * time.Second
	}
	if seconds, ok := parsePositiveInt(prefs.vignetteDelay.Text); ok {
		settings.VignetteDelay = time.Duration(seconds) * time.Second
	}
	if seconds, ok := parsePositiveInt(prefs.vignetteStage.Text); ok {
		settings.VignetteStageDuration = time.Duration(seconds) * time.Second
	}
	if minutes, ok := parsePositiveInt(prefs.suppression.Text); ok {
		settings.SuppressionWindow = time.Duration(minutes) * time.Minute
	}

	settings.VignetteMaxOpacity = prefs.opacity.Value
	settings.ShowTimelineOnStart = prefs.showTimeline.Checked
	settings.Autostart = prefs.autostart.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
