package notifier

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"vigil/internal/core/model"
)

// activeSampleCeiling is the idle duration below which a reward-interval
// sample counts as genuinely active. Samples between this and the activity
// window neither earn nor reset stars.
const activeSampleCeiling = 5 * time.Second

// Controller is the notification state machine. Poll drives four
// independent concerns against one now/idle snapshot: idle-message
// visibility, reward counting, engagement vignette staging, and
// scheduled-alert suppression. All state is written only inside Poll and
// Close, guarded by one mutex.
type Controller struct {
	mu      sync.Mutex
	config  model.NotifierConfig
	factory SurfaceFactory
	rewards RewardPresenter
	logger  *slog.Logger
	rng     *rand.Rand

	idlePresented           bool
	lastScheduledMessageAt  time.Time
	lastRewardCheckAt       time.Time
	activityStartedAt       time.Time
	starCount               int
	vignetteGrowthStartedAt time.Time

	idleSurface  Surface
	alertSurface Surface
	vignette     VignetteSurface
}

// New creates a controller. A nil logger falls back to slog.Default.
func New(config model.NotifierConfig, factory SurfaceFactory, rewards RewardPresenter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		config:  config.Normalized(),
		factory: factory,
		rewards: rewards,
		logger:  logger.With("component", "notifier"),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Poll evaluates all four sub-machines against a single snapshot. A nil
// schedule means "not tracking, no scheduled messages": every surface is
// driven towards hidden.
func (controller *Controller) Poll(now time.Time, idleDuration time.Duration, schedule *model.Schedule) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if idleDuration < 0 {
		idleDuration = 0
	}
	isIdle := idleDuration >= controller.config.IdleThreshold
	tracking := schedule != nil && schedule.IsCurrentlyTracking(now)

	controller.updateIdleMessageLocked(isIdle, tracking, schedule)
	controller.updateRewardsLocked(now, idleDuration, isIdle, tracking)
	controller.updateVignetteLocked(now, isIdle, tracking)
	controller.updateScheduledAlertLocked(now, schedule)
}

// Close tears down every live surface. Safe to call repeatedly and when
// nothing is shown.
func (controller *Controller) Close() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.hideIdleMessageLocked()
	if controller.alertSurface != nil {
		controller.alertSurface.Close()
		controller.alertSurface = nil
	}
	controller.resetVignetteLocked()
	controller.starCount = 0
	controller.lastRewardCheckAt = time.Time{}
}

// UpdateConfig swaps the runtime tuning. Existing timers keep their anchors;
// only thresholds change.
func (controller *Controller) UpdateConfig(config model.NotifierConfig) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.config = config.Normalized()
}

// StarCount returns the current reward streak, for tray status display.
func (controller *Controller) StarCount() int {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.starCount
}

func (controller *Controller) updateIdleMessageLocked(isIdle, tracking bool, schedule *model.Schedule) {
	// The idle→active hide takes priority: an active user must never be
	// left looking at a stale idle reminder.
	if controller.idlePresented && !isIdle {
		controller.hideIdleMessageLocked()
		return
	}
	if controller.idlePresented && !tracking {
		controller.hideIdleMessageLocked()
		return
	}
	if controller.idlePresented || !isIdle || !tracking {
		return
	}

	alarmSound := ""
	if schedule != nil {
		alarmSound = schedule.AlarmSound
	}
	surface, err := controller.factory.NewIdleSurface(IdleParams{
		Message:    "Still there? Time to get moving.",
		AlarmAfter: 2 * controller.config.IdleThreshold,
		AlarmSound: alarmSound,
	})
	if err != nil {
		controller.logger.Error("create idle surface", "error", err)
		return
	}
	controller.idleSurface = surface
	controller.idlePresented = true
}

func (controller *Controller) hideIdleMessageLocked() {
	if controller.idleSurface != nil {
		controller.idleSurface.Close()
		controller.idleSurface = nil
	}
	controller.idlePresented = false
}

func (controller *Controller) updateRewardsLocked(now time.Time, idleDuration time.Duration, isIdle, tracking bool) {
	if isIdle || !tracking {
		controller.starCount = 0
	}
	if !tracking {
		return
	}

	if controller.lastRewardCheckAt.IsZero() {
		// Anchor the interval on the first tracked poll so the first
		// star cannot land the moment the loop starts.
		controller.lastRewardCheckAt = now
		return
	}
	if now.Sub(controller.lastRewardCheckAt) < controller.config.RewardCheckInterval {
		return
	}
	controller.lastRewardCheckAt = now

	switch {
	case idleDuration < controller.config.ActivityWindow && idleDuration < activeSampleCeiling:
		controller.starCount++
		if controller.rewards != nil {
			controller.rewards.ShowStars(controller.starCount, controller.rewardDelaysLocked(controller.starCount))
		}
	case idleDuration >= controller.config.ActivityWindow:
		controller.starCount = 0
	}
	// Samples between the ceiling and the activity window leave the count
	// untouched.
}

// rewardDelaysLocked draws one presentation delay per star, each in
// [1ms, rewardCheckInterval].
func (controller *Controller) rewardDelaysLocked(count int) []time.Duration {
	limit := int64(controller.config.RewardCheckInterval / time.Millisecond)
	if limit < 1 {
		limit = 1
	}
	delays := make([]time.Duration, count)
	for index := range delays {
		delays[index] = time.Duration(1+controller.rng.Int63n(limit)) * time.Millisecond
	}
	return delays
}

func (controller *Controller) updateVignetteLocked(now time.Time, isIdle, tracking bool) {
	if !tracking || isIdle {
		controller.resetVignetteLocked()
		return
	}

	if controller.activityStartedAt.IsZero() {
		controller.activityStartedAt = now
	}
	if now.Sub(controller.activityStartedAt) < controller.config.VignetteDelay {
		return
	}

	if controller.vignette == nil {
		surface, err := controller.factory.NewVignetteSurface()
		if err != nil {
			controller.logger.Error("create vignette surface", "error", err)
			return
		}
		controller.vignette = surface
	}

	if controller.vignetteGrowthStartedAt.IsZero() {
		controller.vignetteGrowthStartedAt = now
	}
	opacity, sizePx, colorCycle := controller.vignetteStageLocked(now.Sub(controller.vignetteGrowthStartedAt))
	controller.vignette.Update(opacity, sizePx, colorCycle)
}

// vignetteStageLocked maps elapsed growth time to the overlay contract.
// Stage 1 ramps opacity and size linearly; stage 2 pins both at maximum and
// ramps the color-cycle intensity over a second stage window.
func (controller *Controller) vignetteStageLocked(elapsed time.Duration) (float64, int, float64) {
	stage := controller.config.VignetteStageDuration
	maxOpacity := controller.config.VignetteMaxOpacity
	maxSize := controller.config.VignetteMaxSizePx

	if elapsed < stage {
		progress := float64(elapsed) / float64(stage)
		return progress * maxOpacity, 1 + int(progress*float64(maxSize-1)), 0
	}

	colorCycle := float64(elapsed-stage) / float64(stage)
	if colorCycle > 1 {
		colorCycle = 1
	}
	return maxOpacity, maxSize, colorCycle
}

// resetVignetteLocked clears the activity streak and synchronously tears the
// overlay down. The blocking teardown guarantees a later show never overlaps
// a surface that is still animating out.
func (controller *Controller) resetVignetteLocked() {
	controller.activityStartedAt = time.Time{}
	controller.vignetteGrowthStartedAt = time.Time{}
	if controller.vignette == nil {
		return
	}
	controller.vignette.ResetGrowth()
	controller.vignette.Close()
	controller.vignette = nil
}

func (controller *Controller) updateScheduledAlertLocked(now time.Time, schedule *model.Schedule) {
	if schedule == nil {
		return
	}
	item := schedule.MatchNow(now, controller.config.MessageCooldown)
	if item == nil {
		return
	}
	if !controller.lastScheduledMessageAt.IsZero() &&
		now.Sub(controller.lastScheduledMessageAt) < controller.config.SuppressionWindow {
		return
	}

	if controller.alertSurface != nil {
		controller.alertSurface.Close()
		controller.alertSurface = nil
	}
	surface, err := controller.factory.NewAlertSurface(AlertParams{
		Label:     item.Label,
		Celebrate: item.Kind == model.KindSuccess,
	})
	if err != nil {
		controller.logger.Error("create alert surface", "error", err, "label", item.Label)
		return
	}
	controller.alertSurface = surface
	controller.lastScheduledMessageAt = now
}
