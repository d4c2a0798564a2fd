package notifier

import (
	"errors"
	"time"

	"vigil/internal/core/model"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleSampler reports the duration since the last user input.
type IdleSampler interface {
	IdleDuration() (time.Duration, error)
}

// ScheduleSource returns the current schedule snapshot, or nil before the
// first successful load. Snapshots are immutable; a reload swaps the pointer.
type ScheduleSource interface {
	Current() *model.Schedule
}

// Dispatcher submits presentation commands to the thread that owns the
// surfaces. Do is fire-and-forget; DoWait blocks until the command ran.
type Dispatcher interface {
	Do(fn func())
	DoWait(fn func())
}

// Surface is a live presentation window owned by the controller.
// Close is idempotent.
type Surface interface {
	Close()
}

// VignetteSurface is the engagement overlay. Update is fire-and-forget;
// ResetGrowth and Close block until the presentation thread finished, so the
// controller never re-shows over a surface that is still tearing down.
type VignetteSurface interface {
	Update(opacity float64, sizePx int, colorCycle float64)
	ResetGrowth()
	Close()
}

// IdleParams configures the idle reminder surface. The surface itself owns
// the fade-in grace delay and fires the alarm once AlarmAfter has elapsed
// since the fade started.
type IdleParams struct {
	Message    string
	AlarmAfter time.Duration
	AlarmSound string
}

// AlertParams configures a scheduled message surface.
type AlertParams struct {
	Label     string
	Celebrate bool
}

// SurfaceFactory creates presentation surfaces. Creation failures are
// reported to the caller; the controller logs them and retries on a later
// poll.
type SurfaceFactory interface {
	NewIdleSurface(params IdleParams) (Surface, error)
	NewAlertSurface(params AlertParams) (Surface, error)
	NewVignetteSurface() (VignetteSurface, error)
}

// RewardPresenter shows the current star count. Each star appears after its
// own delay so rewards trickle in instead of landing at once.
type RewardPresenter interface {
	ShowStars(count int, delays []time.Duration)
}
