package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vigil/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	PollIntervalMs         int     `yaml:"poll_interval_ms"`
	IdleThresholdSeconds   int     `yaml:"idle_threshold_seconds"`
	RewardCheckSeconds     int     `yaml:"reward_check_seconds"`
	ActivityWindowSeconds  int     `yaml:"activity_window_seconds"`
	VignetteDelaySeconds   int     `yaml:"vignette_delay_seconds"`
	VignetteStageSeconds   int     `yaml:"vignette_stage_seconds"`
	VignetteMaxOpacity     float64 `yaml:"vignette_max_opacity"`
	VignetteMaxSizePx      int     `yaml:"vignette_max_size_px"`
	MessageCooldownSeconds int     `yaml:"message_cooldown_seconds"`
	SuppressionMinutes     int     `yaml:"suppression_minutes"`
	ShowTimelineOnStart    bool    `yaml:"show_timeline_on_start"`
	Autostart              bool    `yaml:"autostart"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		PollIntervalMs:         int(settings.PollInterval / time.Millisecond),
		IdleThresholdSeconds:   int(settings.IdleThreshold / time.Second),
		RewardCheckSeconds:     int(settings.RewardCheckInterval / time.Second),
		ActivityWindowSeconds:  int(settings.ActivityWindow / time.Second),
		VignetteDelaySeconds:   int(settings.VignetteDelay / time.Second),
		VignetteStageSeconds:   int(settings.VignetteStageDuration / time.Second),
		VignetteMaxOpacity:     settings.VignetteMaxOpacity,
		VignetteMaxSizePx:      settings.VignetteMaxSizePx,
		MessageCooldownSeconds: int(settings.MessageCooldown / time.Second),
		SuppressionMinutes:     int(settings.SuppressionWindow / time.Minute),
		ShowTimelineOnStart:    settings.ShowTimelineOnStart,
		Autostart:              settings.Autostart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.PollIntervalMs > 0 {
		settings.PollInterval = time.Duration(fileData.PollIntervalMs) * time.Millisecond
	}
	if fileData.IdleThresholdSeconds > 0 {
		settings.IdleThreshold = time.Duration(fileData.IdleThresholdSeconds) * time.Second
	}
	if fileData.RewardCheckSeconds > 0 {
		settings.RewardCheckInterval = time.Duration(fileData.RewardCheckSeconds) * time.Second
	}
	if fileData.ActivityWindowSeconds > 0 {
		settings.ActivityWindow = time.Duration(fileData.ActivityWindowSeconds) * time.Second
	}
	if fileData.VignetteDelaySeconds > 0 {
		settings.VignetteDelay = time.Duration(fileData.VignetteDelaySeconds) * time.Second
	}
	if fileData.VignetteStageSeconds > 0 {
		settings.VignetteStageDuration = time.Duration(fileData.VignetteStageSeconds) * time.Second
	}
	if fileData.VignetteMaxOpacity > 0 && fileData.VignetteMaxOpacity <= 1 {
		settings.VignetteMaxOpacity = fileData.VignetteMaxOpacity
	}
	if fileData.VignetteMaxSizePx > 0 {
		settings.VignetteMaxSizePx = fileData.VignetteMaxSizePx
	}
	if fileData.MessageCooldownSeconds > 0 {
		settings.MessageCooldown = time.Duration(fileData.MessageCooldownSeconds) * time.Second
	}
	if fileData.SuppressionMinutes > 0 {
		settings.SuppressionWindow = time.Duration(fileData.SuppressionMinutes) * time.Minute
	}
	settings.ShowTimelineOnStart = fileData.ShowTimelineOnStart
	settings.Autostart = fileData.Autostart
}
