package model

import "time"

// Kind classifies a schedule item.
type Kind string

const (
	// KindStartTracking opens a tracking window.
	KindStartTracking Kind = "start_tracking"
	// KindEndTracking closes the tracking window opened by the most
	// recent preceding start.
	KindEndTracking Kind = "end_tracking"
	// KindAlert is an ad-hoc labeled instant shown as a plain message.
	KindAlert Kind = "alert"
	// KindSuccess is an ad-hoc labeled instant shown as a celebratory message.
	KindSuccess Kind = "success"
)

// Event is a single timestamped schedule item.
type Event struct {
	At    ClockTime
	Label string
	Kind  Kind
}

// Schedule is an immutable snapshot of the user's day plan. A reload
// replaces the whole value; no field is mutated after construction.
type Schedule struct {
	PadMinutes int
	Items      []Event
	AlarmSound string
}

// DefaultMessageCooldown bounds how far a schedule item's timestamp may be
// from now for the item to still match.
const DefaultMessageCooldown = 30 * time.Second

// IsCurrentlyTracking reports whether now falls inside a tracking window:
// the most recent start at or before now, paired with the first end strictly
// after that start. A start with no following end never tracks.
func (schedule *Schedule) IsCurrentlyTracking(now time.Time) bool {
	clock := ClockTimeOf(now)

	lastStart := ClockTime(-1)
	for _, item := range schedule.Items {
		if item.Kind != KindStartTracking {
			continue
		}
		if item.At <= clock && item.At > lastStart {
			lastStart = item.At
		}
	}
	if lastStart < 0 {
		return false
	}

	windowEnd := ClockTime(-1)
	for _, item := range schedule.Items {
		if item.Kind != KindEndTracking {
			continue
		}
		if item.At > lastStart && (windowEnd < 0 || item.At < windowEnd) {
			windowEnd = item.At
		}
	}
	if windowEnd < 0 {
		return false
	}
	return clock < windowEnd
}

// TimelineBounds returns the padded extent of the schedule. An empty
// schedule spans the full day so callers always get a drawable range.
func (schedule *Schedule) TimelineBounds() (ClockTime, ClockTime) {
	if len(schedule.Items) == 0 {
		return 0, fullDay
	}

	earliest := schedule.Items[0].At
	latest := schedule.Items[0].At
	for _, item := range schedule.Items[1:] {
		if item.At < earliest {
			earliest = item.At
		}
		if item.At > latest {
			latest = item.At
		}
	}

	pad := ClockTime(time.Duration(schedule.PadMinutes) * time.Minute)
	start := earliest - pad
	if start < 0 {
		start = 0
	}
	end := latest + pad
	if end > fullDay {
		end = fullDay
	}
	return start, end
}

// MatchNow returns the first item, in declaration order, whose wrapped
// time-of-day distance to now is below cooldown, or nil when none matches.
// Declaration order means closely spaced items resolve to whichever the
// schedule author listed first.
func (schedule *Schedule) MatchNow(now time.Time, cooldown time.Duration) *Event {
	if cooldown <= 0 {
		cooldown = DefaultMessageCooldown
	}
	clock := ClockTimeOf(now)
	for index := range schedule.Items {
		item := &schedule.Items[index]
		if clock.DistanceTo(item.At) < cooldown {
			return item
		}
	}
	return nil
}
