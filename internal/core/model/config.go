package model

import "time"

// NotifierConfig contains runtime settings for the notification controller.
type NotifierConfig struct {
	PollInterval  time.Duration
	IdleThreshold time.Duration

	RewardCheckInterval time.Duration
	ActivityWindow      time.Duration

	VignetteDelay         time.Duration
	VignetteStageDuration time.Duration
	VignetteMaxOpacity    float64
	VignetteMaxSizePx     int

	MessageCooldown   time.Duration
	SuppressionWindow time.Duration
}

// DefaultNotifierConfig returns the stock tuning for Vigil.
func DefaultNotifierConfig() NotifierConfig {
	return NotifierConfig{
		PollInterval:  300 * time.Millisecond,
		IdleThreshold: 30 * time.Second,

		RewardCheckInterval: 20 * time.Second,
		ActivityWindow:      20 * time.Second,

		VignetteDelay:         60 * time.Second,
		VignetteStageDuration: 90 * time.Second,
		VignetteMaxOpacity:    0.35,
		VignetteMaxSizePx:     160,

		MessageCooldown:   DefaultMessageCooldown,
		SuppressionWindow: 5 * time.Minute,
	}
}

// Normalized returns a copy with zero or negative fields replaced by defaults.
func (config NotifierConfig) Normalized() NotifierConfig {
	defaults := DefaultNotifierConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.IdleThreshold <= 0 {
		config.IdleThreshold = defaults.IdleThreshold
	}
	if config.RewardCheckInterval <= 0 {
		config.RewardCheckInterval = defaults.RewardCheckInterval
	}
	if config.ActivityWindow <= 0 {
		config.ActivityWindow = defaults.ActivityWindow
	}
	if config.VignetteDelay <= 0 {
		config.VignetteDelay = defaults.VignetteDelay
	}
	if config.VignetteStageDuration <= 0 {
		config.VignetteStageDuration = defaults.VignetteStageDuration
	}
	if config.VignetteMaxOpacity <= 0 || config.VignetteMaxOpacity > 1 {
		config.VignetteMaxOpacity = defaults.VignetteMaxOpacity
	}
	if config.VignetteMaxSizePx < 1 {
		config.VignetteMaxSizePx = defaults.VignetteMaxSizePx
	}
	if config.MessageCooldown <= 0 {
		config.MessageCooldown = defaults.MessageCooldown
	}
	if config.SuppressionWindow <= 0 {
		config.SuppressionWindow = defaults.SuppressionWindow
	}
	return config
}
