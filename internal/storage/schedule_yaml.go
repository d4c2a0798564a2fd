package storage

import (
	"fmt"
	"os"

	"vigil/internal/core/model"

	"gopkg.in/yaml.v3"
)

type yamlSchedule struct {
	PadMinutes int                 `yaml:"pad_minutes"`
	AlarmSound string              `yaml:"alarm_sound"`
	Items      []yamlScheduleEvent `yaml:"items"`
}

type yamlScheduleEvent struct {
	At    string `yaml:"at"`
	Label string `yaml:"label"`
	Kind  string `yaml:"kind"`
}

// LoadSchedule reads a schedule snapshot from YAML. Item order is preserved
// as declared; the model deliberately does not sort it.
func LoadSchedule(path string) (*model.Schedule, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule file: %w", err)
	}

	var fileData yamlSchedule
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return nil, fmt.Errorf("parse schedule yaml: %w", err)
	}

	schedule := &model.Schedule{
		PadMinutes: fileData.PadMinutes,
		AlarmSound: fileData.AlarmSound,
		Items:      make([]model.Event, 0, len(fileData.Items)),
	}
	for index, item := range fileData.Items {
		at, err := model.ParseClockTime(item.At)
		if err != nil {
			return nil, fmt.Errorf("schedule item %d: %w", index, err)
		}
		kind, err := parseKind(item.Kind)
		if err != nil {
			return nil, fmt.Errorf("schedule item %d: %w", index, err)
		}
		schedule.Items = append(schedule.Items, model.Event{
			At:    at,
			Label: item.Label,
			Kind:  kind,
		})
	}
	return schedule, nil
}

func parseKind(value string) (model.Kind, error) {
	switch model.Kind(value) {
	case model.KindStartTracking, model.KindEndTracking, model.KindAlert, model.KindSuccess:
		return model.Kind(value), nil
	}
	return "", fmt.Errorf("unknown schedule item kind %q", value)
}
