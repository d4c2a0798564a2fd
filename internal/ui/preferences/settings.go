package preferences

import (
	"time"

	"vigil/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	PollInterval        time.Duration
	IdleThreshold       time.Duration
	RewardCheckInterval time.Duration
	ActivityWindow      time.Duration

	VignetteDelay         time.Duration
	VignetteStageDuration time.Duration
	VignetteMaxOpacity    float64
	VignetteMaxSizePx     int

	MessageCooldown   time.Duration
	SuppressionWindow time.Duration

	ShowTimelineOnStart bool
	Autostart           bool
}

// DefaultSettings returns default settings for Vigil.
func DefaultSettings() Settings {
	defaults := model.DefaultNotifierConfig()
	return Settings{
		PollInterval:          defaults.PollInterval,
		IdleThreshold:         defaults.IdleThreshold,
		RewardCheckInterval:   defaults.RewardCheckInterval,
		ActivityWindow:        defaults.ActivityWindow,
		VignetteDelay:         defaults.VignetteDelay,
		VignetteStageDuration: defaults.VignetteStageDuration,
		VignetteMaxOpacity:    defaults.VignetteMaxOpacity,
		VignetteMaxSizePx:     defaults.VignetteMaxSizePx,
		MessageCooldown:       defaults.MessageCooldown,
		SuppressionWindow:     defaults.SuppressionWindow,
		ShowTimelineOnStart:   true,
		Autostart:             false,
	}
}

// NotifierConfig converts settings to a controller configuration.
func (settings Settings) NotifierConfig() model.NotifierConfig {
	config := model.DefaultNotifierConfig()
	config.PollInterval = settings.PollInterval
	config.IdleThreshold = settings.IdleThreshold
	config.RewardCheckInterval = settings.RewardCheckInterval
	config.ActivityWindow = settings.ActivityWindow
	config.VignetteDelay = settings.VignetteDelay
	config.VignetteStageDuration = settings.VignetteStageDuration
	config.VignetteMaxOpacity = settings.VignetteMaxOpacity
	config.VignetteMaxSizePx = settings.VignetteMaxSizePx
	config.MessageCooldown = settings.MessageCooldown
	config.SuppressionWindow = settings.SuppressionWindow
	return config.Normalized()
}
