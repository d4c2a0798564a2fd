// Package timeline turns a schedule into a drawable strip of fixed-size
// buckets. Generate is pure: it may run on every refresh tick without
// accumulating state.
package timeline

import (
	"image/color"
	"sort"
	"time"

	"vigil/internal/core/model"
)

// BucketSize is the width of one timeline segment.
const BucketSize = 10 * time.Minute

// pastDim is the channel multiplier applied to buckets already behind now.
const pastDim = 0.45

var (
	activeColor    = color.NRGBA{R: 64, G: 148, B: 96, A: 255}
	neutralColor   = color.NRGBA{R: 88, G: 88, B: 96, A: 255}
	highlightColor = color.NRGBA{R: 235, G: 201, B: 82, A: 255}
)

// Segment is one discretized bucket of the timeline.
type Segment struct {
	Start     model.ClockTime
	IsCurrent bool
	IsPast    bool
	Color     color.NRGBA

	// Label carries the text of a schedule item whose timestamp falls in
	// this bucket; LabelPassed marks it for strikethrough once now has
	// moved past the item.
	Label       string
	LabelPassed bool
}

// Generate renders the schedule into segments covering the padded timeline
// bounds. blinkOn alternates the current bucket between its base color and
// the highlight color; the caller flips it on each refresh tick.
func Generate(schedule *model.Schedule, now time.Time, blinkOn bool) []Segment {
	start, end := schedule.TimelineBounds()
	if end <= start {
		return nil
	}

	sortedTimes := make([]model.ClockTime, 0, len(schedule.Items))
	for _, item := range schedule.Items {
		sortedTimes = append(sortedTimes, item.At)
	}
	sort.Slice(sortedTimes, func(left, right int) bool {
		return sortedTimes[left] < sortedTimes[right]
	})

	clock := model.ClockTimeOf(now)
	bucket := model.ClockTime(BucketSize)

	segments := make([]Segment, 0, int((end-start)/bucket)+1)
	for at := start; at < end; at += bucket {
		bucketEnd := at + bucket

		segment := Segment{
			Start:     at,
			IsCurrent: clock >= at && clock < bucketEnd,
			IsPast:    clock >= bucketEnd,
			Color:     baseColor(sortedTimes, at),
		}

		for _, item := range schedule.Items {
			if item.At >= at && item.At < bucketEnd {
				segment.Label = item.Label
				segment.LabelPassed = clock > item.At
				break
			}
		}

		if segment.IsPast {
			segment.Color = dim(segment.Color, pastDim)
		}
		if segment.IsCurrent && blinkOn {
			segment.Color = highlightColor
		}

		segments = append(segments, segment)
	}
	return segments
}

// baseColor colors a bucket by the inter-item interval its start falls in:
// even intervals are active, odd neutral, and anything outside the first and
// last item is neutral.
func baseColor(sortedTimes []model.ClockTime, at model.ClockTime) color.NRGBA {
	if len(sortedTimes) == 0 {
		return neutralColor
	}
	if at < sortedTimes[0] || at >= sortedTimes[len(sortedTimes)-1] {
		return neutralColor
	}

	passed := 0
	for _, itemTime := range sortedTimes {
		if itemTime <= at {
			passed++
		}
	}
	if (passed-1)%2 == 0 {
		return activeColor
	}
	return neutralColor
}

func dim(base color.NRGBA, factor float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(base.R) * factor),
		G: uint8(float64(base.G) * factor),
		B: uint8(float64(base.B) * factor),
		A: base.A,
	}
}
