package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a time of day expressed as an offset from midnight.
type ClockTime time.Duration

const fullDay = ClockTime(24 * time.Hour)

// ClockTimeOf extracts the time of day from a wall-clock instant.
func ClockTimeOf(instant time.Time) ClockTime {
	hour, minute, second := instant.Clock()
	offset := time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second
	offset += time.Duration(instant.Nanosecond())
	return ClockTime(offset)
}

// ParseClockTime parses "HH:MM" or "HH:MM:SS".
func ParseClockTime(value string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("parse clock time %q: expected HH:MM or HH:MM:SS", value)
	}

	numbers := make([]int, len(parts))
	for index, part := range parts {
		parsed, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("parse clock time %q: %w", value, err)
		}
		numbers[index] = parsed
	}

	hour := numbers[0]
	minute := numbers[1]
	second := 0
	if len(numbers) == 3 {
		second = numbers[2]
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("parse clock time %q: out of range", value)
	}

	offset := time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second
	return ClockTime(offset), nil
}

// Duration converts the clock time to a plain duration since midnight.
func (clock ClockTime) Duration() time.Duration {
	return time.Duration(clock)
}

// DistanceTo returns the wrapped time-of-day distance between two instants.
// The result is always in [0, 12h].
func (clock ClockTime) DistanceTo(other ClockTime) time.Duration {
	diff := time.Duration(clock) - time.Duration(other)
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Duration(fullDay)/2 {
		diff = time.Duration(fullDay) - diff
	}
	return diff
}

// String formats the clock time as HH:MM:SS.
func (clock ClockTime) String() string {
	total := int(time.Duration(clock).Seconds())
	hour := total / 3600
	minute := (total % 3600) / 60
	second := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second)
}
