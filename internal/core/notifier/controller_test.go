package notifier

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"vigil/internal/core/model"
)

// fakeSurface records close calls.
type fakeSurface struct {
	closed int
}

func (surface *fakeSurface) Close() { surface.closed++ }

type vignetteUpdate struct {
	opacity    float64
	sizePx     int
	colorCycle float64
}

// fakeVignette records the full update sequence and teardown ordering.
type fakeVignette struct {
	updates       []vignetteUpdate
	resets        int
	closed        int
	resetThenShut bool
}

func (vignette *fakeVignette) Update(opacity float64, sizePx int, colorCycle float64) {
	vignette.updates = append(vignette.updates, vignetteUpdate{opacity, sizePx, colorCycle})
}

func (vignette *fakeVignette) ResetGrowth() {
	vignette.resets++
	vignette.resetThenShut = vignette.closed == 0
}

func (vignette *fakeVignette) Close() { vignette.closed++ }

// fakeFactory is a recording test double for SurfaceFactory.
type fakeFactory struct {
	idleSurfaces  []*fakeSurface
	alertSurfaces []*fakeSurface
	alertParams   []AlertParams
	vignettes     []*fakeVignette

	idleErr     error
	alertErr    error
	vignetteErr error
}

func (factory *fakeFactory) NewIdleSurface(params IdleParams) (Surface, error) {
	if factory.idleErr != nil {
		return nil, factory.idleErr
	}
	surface := &fakeSurface{}
	factory.idleSurfaces = append(factory.idleSurfaces, surface)
	return surface, nil
}

func (factory *fakeFactory) NewAlertSurface(params AlertParams) (Surface, error) {
	if factory.alertErr != nil {
		return nil, factory.alertErr
	}
	surface := &fakeSurface{}
	factory.alertSurfaces = append(factory.alertSurfaces, surface)
	factory.alertParams = append(factory.alertParams, params)
	return surface, nil
}

func (factory *fakeFactory) NewVignetteSurface() (VignetteSurface, error) {
	if factory.vignetteErr != nil {
		return nil, factory.vignetteErr
	}
	vignette := &fakeVignette{}
	factory.vignettes = append(factory.vignettes, vignette)
	return vignette, nil
}

type rewardShow struct {
	count  int
	delays []time.Duration
}

type fakeRewards struct {
	shows []rewardShow
}

func (rewards *fakeRewards) ShowStars(count int, delays []time.Duration) {
	rewards.shows = append(rewards.shows, rewardShow{count: count, delays: delays})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() model.NotifierConfig {
	config := model.DefaultNotifierConfig()
	config.IdleThreshold = 30 * time.Second
	config.RewardCheckInterval = 20 * time.Second
	config.ActivityWindow = 20 * time.Second
	config.VignetteDelay = 60 * time.Second
	config.VignetteStageDuration = 90 * time.Second
	config.SuppressionWindow = 5 * time.Minute
	return config
}

func trackingSchedule(t *testing.T) *model.Schedule {
	t.Helper()
	return &model.Schedule{
		PadMinutes: 10,
		Items: []model.Event{
			{At: mustClock(t, "08:00"), Kind: model.KindStartTracking, Label: "Start"},
			{At: mustClock(t, "10:00"), Kind: model.KindEndTracking, Label: "End"},
		},
	}
}

func mustClock(t *testing.T, value string) model.ClockTime {
	t.Helper()
	clock, err := model.ParseClockTime(value)
	if err != nil {
		t.Fatalf("ParseClockTime(%q) failed: %v", value, err)
	}
	return clock
}

func dayAt(hour, minute, second int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, second, 0, time.UTC)
}

func TestPoll_NilScheduleShowsNothing(t *testing.T) {
	factory := &fakeFactory{}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())

	for step := 0; step < 10; step++ {
		controller.Poll(dayAt(8, 30, 0).Add(time.Duration(step)*300*time.Millisecond), time.Minute, nil)
	}

	if len(factory.idleSurfaces)+len(factory.alertSurfaces)+len(factory.vignettes) != 0 {
		t.Fatalf("surfaces created with nil schedule: %+v", factory)
	}
}

func TestPoll_OutsideWindowShowsNothing(t *testing.T) {
	factory := &fakeFactory{}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())

	// 07:55 is before the window and 5 minutes from the nearest item,
	// well outside the 30s message cooldown.
	controller.Poll(dayAt(7, 55, 0), 0, trackingSchedule(t))

	if len(factory.idleSurfaces)+len(factory.alertSurfaces)+len(factory.vignettes) != 0 {
		t.Fatalf("surfaces created outside tracking window: %+v", factory)
	}
}

func TestPoll_IdleShowAndHide(t *testing.T) {
	factory := &fakeFactory{}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)
	now := dayAt(8, 30, 0)

	controller.Poll(now, time.Minute, schedule)
	if len(factory.idleSurfaces) != 1 {
		t.Fatalf("idle surfaces after going idle = %d, want 1", len(factory.idleSurfaces))
	}

	// Repeated idle polls must not create a second surface.
	controller.Poll(now.Add(300*time.Millisecond), time.Minute, schedule)
	controller.Poll(now.Add(600*time.Millisecond), time.Minute, schedule)
	if len(factory.idleSurfaces) != 1 {
		t.Fatalf("idle surface duplicated: %d", len(factory.idleSurfaces))
	}

	// User comes back: the surface is hidden immediately.
	controller.Poll(now.Add(time.Second), 0, schedule)
	if factory.idleSurfaces[0].closed != 1 {
		t.Fatalf("idle surface closed %d times after activity, want 1", factory.idleSurfaces[0].closed)
	}

	// Going idle again shows a fresh surface.
	controller.Poll(now.Add(2*time.Second), time.Minute, schedule)
	if len(factory.idleSurfaces) != 2 {
		t.Fatalf("idle surfaces after second idle = %d, want 2", len(factory.idleSurfaces))
	}
}

func TestPoll_IdleHiddenWhenWindowCloses(t *testing.T) {
	factory := &fakeFactory{}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)

	controller.Poll(dayAt(9, 58, 0), time.Minute, schedule)
	if len(factory.idleSurfaces) != 1 {
		t.Fatalf("idle surface not shown inside window")
	}

	// Still idle, but the window has closed.
	controller.Poll(dayAt(10, 1, 0), 2*time.Minute, schedule)
	if factory.idleSurfaces[0].closed != 1 {
		t.Fatalf("idle surface not hidden after window close: closed=%d", factory.idleSurfaces[0].closed)
	}
}

func TestPoll_IdleNotShownOutsideTracking(t *testing.T) {
	factory := &fakeFactory{}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())

	controller.Poll(dayAt(12, 0, 0), time.Minute, trackingSchedule(t))
	if len(factory.idleSurfaces) != 0 {
		t.Fatalf("idle surface shown outside tracking window")
	}
}

func TestPoll_IdleCreationFailureRetries(t *testing.T) {
	factory := &fakeFactory{idleErr: errors.New("window system unavailable")}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)
	now := dayAt(8, 30, 0)

	controller.Poll(now, time.Minute, schedule)
	if len(factory.idleSurfaces) != 0 {
		t.Fatalf("surface created despite factory error")
	}

	// The failure cleared the handle; the next poll retries cleanly.
	factory.idleErr = nil
	controller.Poll(now.Add(300*time.Millisecond), time.Minute, schedule)
	if len(factory.idleSurfaces) != 1 {
		t.Fatalf("idle surface not retried after failure: %d", len(factory.idleSurfaces))
	}
}

func TestPoll_RewardAccrual(t *testing.T) {
	factory := &fakeFactory{}
	rewards := &fakeRewards{}
	config := testConfig()
	controller := New(config, factory, rewards, testLogger())
	schedule := trackingSchedule(t)
	start := dayAt(8, 30, 0)

	// First tracked poll anchors the interval; no star yet.
	controller.Poll(start, 0, schedule)
	if controller.StarCount() != 0 {
		t.Fatalf("star count after anchor poll = %d, want 0", controller.StarCount())
	}

	controller.Poll(start.Add(20*time.Second), 0, schedule)
	if controller.StarCount() != 1 {
		t.Fatalf("star count after first interval = %d, want 1", controller.StarCount())
	}
	controller.Poll(start.Add(40*time.Second), time.Second, schedule)
	if controller.StarCount() != 2 {
		t.Fatalf("star count after second interval = %d, want 2", controller.StarCount())
	}

	if len(rewards.shows) != 2 {
		t.Fatalf("reward shows = %d, want 2", len(rewards.shows))
	}
	last := rewards.shows[1]
	if last.count != 2 || len(last.delays) != 2 {
		t.Fatalf("last show = count %d with %d delays, want 2/2", last.count, len(last.delays))
	}
	for _, delay := range last.delays {
		if delay < time.Millisecond || delay > config.RewardCheckInterval {
			t.Errorf("reward delay %v outside [1ms, %v]", delay, config.RewardCheckInterval)
		}
	}
}

func TestPoll_RewardStaysZeroWhenInactive(t *testing.T) {
	factory := &fakeFactory{}
	rewards := &fakeRewards{}
	controller := New(testConfig(), factory, rewards, testLogger())
	schedule := trackingSchedule(t)
	start := dayAt(8, 30, 0)

	// Idle duration sits at the activity window (25s >= 20s) but below
	// the 30s idle threshold, across many interval checks.
	for step := 0; step <= 10; step++ {
		controller.Poll(start.Add(time.Duration(step)*20*time.Second), 25*time.Second, schedule)
		if controller.StarCount() != 0 {
			t.Fatalf("star count at step %d = %d, want 0", step, controller.StarCount())
		}
	}
	if len(rewards.shows) != 0 {
		t.Fatalf("rewards shown while inactive: %d", len(rewards.shows))
	}
}

func TestPoll_RewardNeutralZoneHoldsCount(t *testing.T) {
	factory := &fakeFactory{}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)
	start := dayAt(8, 30, 0)

	controller.Poll(start, 0, schedule)
	controller.Poll(start.Add(20*time.Second), 0, schedule)
	if controller.StarCount() != 1 {
		t.Fatalf("setup: star count = %d, want 1", controller.StarCount())
	}

	// 10s is between the 5s active ceiling and the 20s activity window:
	// the count neither grows nor resets.
	controller.Poll(start.Add(40*time.Second), 10*time.Second, schedule)
	if controller.StarCount() != 1 {
		t.Fatalf("neutral zone changed star count to %d", controller.StarCount())
	}

	controller.Poll(start.Add(60*time.Second), 0, schedule)
	if controller.StarCount() != 2 {
		t.Fatalf("star count after neutral zone = %d, want 2", controller.StarCount())
	}
}

func TestPoll_RewardForceResetOnIdle(t *testing.T) {
	factory := &fakeFactory{}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)
	start := dayAt(8, 30, 0)

	controller.Poll(start, 0, schedule)
	controller.Poll(start.Add(20*time.Second), 0, schedule)
	if controller.StarCount() != 1 {
		t.Fatalf("setup: star count = %d, want 1", controller.StarCount())
	}

	// Force reset happens on the next poll, not on the next interval.
	controller.Poll(start.Add(21*time.Second), time.Minute, schedule)
	if controller.StarCount() != 0 {
		t.Fatalf("star count after going idle = %d, want 0", controller.StarCount())
	}
}

func TestPoll_VignetteCreatedOnceAtDelay(t *testing.T) {
	factory := &fakeFactory{}
	config := testConfig()
	controller := New(config, factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)
	start := dayAt(8, 30, 0)

	step := 300 * time.Millisecond
	for elapsed := time.Duration(0); elapsed <= 61*time.Second; elapsed += step {
		controller.Poll(start.Add(elapsed), 0, schedule)

		if elapsed < config.VignetteDelay && len(factory.vignettes) != 0 {
			t.Fatalf("vignette created at %v, before the %v delay", elapsed, config.VignetteDelay)
		}
		if elapsed >= config.VignetteDelay && len(factory.vignettes) != 1 {
			t.Fatalf("vignette count at %v = %d, want 1", elapsed, len(factory.vignettes))
		}
	}
}

func TestPoll_VignetteStageProgression(t *testing.T) {
	factory := &fakeFactory{}
	config := testConfig()
	controller := New(config, factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)
	start := dayAt(8, 30, 0)

	// Reach the overlay delay, then step through both growth stages.
	controller.Poll(start, 0, schedule)
	growthStart := start.Add(config.VignetteDelay)
	for elapsed := time.Duration(0); elapsed <= 3*config.VignetteStageDuration; elapsed += 5 * time.Second {
		controller.Poll(growthStart.Add(elapsed), 0, schedule)
	}

	if len(factory.vignettes) != 1 {
		t.Fatalf("vignette count = %d, want 1", len(factory.vignettes))
	}
	updates := factory.vignettes[0].updates
	if len(updates) == 0 {
		t.Fatal("no vignette updates recorded")
	}

	previousOpacity := -1.0
	sawPinned := false
	for index, update := range updates {
		if update.opacity < previousOpacity-1e-9 {
			t.Fatalf("opacity decreased at update %d: %v -> %v", index, previousOpacity, update.opacity)
		}
		previousOpacity = update.opacity

		if update.opacity > config.VignetteMaxOpacity+1e-9 {
			t.Fatalf("opacity %v exceeds max %v", update.opacity, config.VignetteMaxOpacity)
		}
		if update.sizePx < 1 || update.sizePx > config.VignetteMaxSizePx {
			t.Fatalf("size %d outside [1, %d]", update.sizePx, config.VignetteMaxSizePx)
		}
		if update.colorCycle > 0 && update.opacity < config.VignetteMaxOpacity-1e-9 {
			t.Fatalf("color cycle started before growth pinned: %+v", update)
		}
		if update.opacity == config.VignetteMaxOpacity && update.sizePx == config.VignetteMaxSizePx {
			sawPinned = true
		}
	}
	if !sawPinned {
		t.Fatal("growth never reached its maximum")
	}

	final := updates[len(updates)-1]
	if final.colorCycle != 1 {
		t.Fatalf("final color cycle = %v, want 1", final.colorCycle)
	}
}

func TestPoll_VignetteResetOnIdle(t *testing.T) {
	factory := &fakeFactory{}
	config := testConfig()
	controller := New(config, factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)
	start := dayAt(8, 30, 0)

	controller.Poll(start, 0, schedule)
	controller.Poll(start.Add(config.VignetteDelay), 0, schedule)
	if len(factory.vignettes) != 1 {
		t.Fatalf("setup: vignette not created")
	}

	controller.Poll(start.Add(config.VignetteDelay+time.Second), time.Minute, schedule)
	vignette := factory.vignettes[0]
	if vignette.resets != 1 || vignette.closed != 1 {
		t.Fatalf("vignette resets=%d closed=%d, want 1/1", vignette.resets, vignette.closed)
	}
	if !vignette.resetThenShut {
		t.Fatal("vignette was closed before its growth reset")
	}

	// The streak starts over: a fresh surface only after a full delay.
	resumeAt := start.Add(config.VignetteDelay + 2*time.Second)
	controller.Poll(resumeAt, 0, schedule)
	if len(factory.vignettes) != 1 {
		t.Fatalf("vignette recreated before delay elapsed again")
	}
	controller.Poll(resumeAt.Add(config.VignetteDelay), 0, schedule)
	if len(factory.vignettes) != 2 {
		t.Fatalf("vignette count after new streak = %d, want 2", len(factory.vignettes))
	}
}

func TestPoll_AlertSuppression(t *testing.T) {
	factory := &fakeFactory{}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)

	controller.Poll(dayAt(8, 0, 5), 0, schedule)
	if len(factory.alertSurfaces) != 1 {
		t.Fatalf("alert surfaces = %d, want 1", len(factory.alertSurfaces))
	}
	if factory.alertParams[0].Label != "Start" {
		t.Fatalf("alert label = %q, want Start", factory.alertParams[0].Label)
	}

	// Still within both the cooldown and the suppression window.
	controller.Poll(dayAt(8, 0, 10), 0, schedule)
	if len(factory.alertSurfaces) != 1 {
		t.Fatalf("suppressed alert was shown anyway")
	}

	// A later item outside the suppression window replaces the surface.
	controller.Poll(dayAt(10, 0, 1), 0, schedule)
	if len(factory.alertSurfaces) != 2 {
		t.Fatalf("alert surfaces after second item = %d, want 2", len(factory.alertSurfaces))
	}
	if factory.alertSurfaces[0].closed != 1 {
		t.Fatalf("previous alert surface not closed on replace")
	}
	if factory.alertParams[1].Label != "End" {
		t.Fatalf("second alert label = %q, want End", factory.alertParams[1].Label)
	}
}

func TestPoll_SuccessItemCelebrates(t *testing.T) {
	factory := &fakeFactory{}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())
	schedule := &model.Schedule{Items: []model.Event{
		{At: mustClock(t, "09:00"), Kind: model.KindSuccess, Label: "All done!"},
	}}

	controller.Poll(dayAt(9, 0, 2), 0, schedule)
	if len(factory.alertParams) != 1 {
		t.Fatalf("alert surfaces = %d, want 1", len(factory.alertParams))
	}
	if !factory.alertParams[0].Celebrate {
		t.Fatal("success item not marked celebratory")
	}
}

func TestPoll_AlertCreationFailureRetries(t *testing.T) {
	factory := &fakeFactory{alertErr: errors.New("window system unavailable")}
	controller := New(testConfig(), factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)

	controller.Poll(dayAt(8, 0, 5), 0, schedule)
	if len(factory.alertSurfaces) != 0 {
		t.Fatalf("alert created despite factory error")
	}

	// The failed show must not arm the suppression window.
	factory.alertErr = nil
	controller.Poll(dayAt(8, 0, 10), 0, schedule)
	if len(factory.alertSurfaces) != 1 {
		t.Fatalf("alert not retried after failure: %d", len(factory.alertSurfaces))
	}
}

func TestClose_Idempotent(t *testing.T) {
	factory := &fakeFactory{}
	config := testConfig()
	controller := New(config, factory, &fakeRewards{}, testLogger())
	schedule := trackingSchedule(t)
	start := dayAt(8, 30, 0)

	// Bring up the idle surface and the vignette.
	controller.Poll(start, 0, schedule)
	controller.Poll(start.Add(config.VignetteDelay), 0, schedule)
	controller.Poll(start.Add(config.VignetteDelay+time.Second), time.Minute, schedule)
	if len(factory.idleSurfaces) != 1 {
		t.Fatalf("setup: idle surface missing")
	}

	controller.Close()
	controller.Close()

	if factory.idleSurfaces[0].closed != 1 {
		t.Fatalf("idle surface closed %d times, want 1", factory.idleSurfaces[0].closed)
	}
	if factory.vignettes[0].closed != 1 {
		t.Fatalf("vignette closed %d times, want 1", factory.vignettes[0].closed)
	}
	if controller.StarCount() != 0 {
		t.Fatalf("star count after close = %d, want 0", controller.StarCount())
	}
}
