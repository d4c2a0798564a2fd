package surface

import (
	"context"
	"image/color"
	"math"
	"time"

	"fyne.io/fyne/v2"
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// newUndecoratedWindow prefers a splash window (no native frame or buttons)
// and falls back to a regular window where the driver cannot make one.
func newUndecoratedWindow(app fyne.App, title string) fyne.Window {
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		return driver.CreateSplashWindow()
	}
	return app.NewWindow(title)
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// rainbowColor blends a base color toward a hue that sweeps the spectrum
// once per cycle period. intensity 0 returns the base unchanged, 1 the full
// rainbow color.
func rainbowColor(base color.NRGBA, intensity float64, now time.Time) color.NRGBA {
	if intensity <= 0 {
		return base
	}
	if intensity > 1 {
		intensity = 1
	}

	const cyclePeriod = 4 * time.Second
	phase := float64(now.UnixNano()%int64(cyclePeriod)) / float64(cyclePeriod)
	red, green, blue := hueToRGB(phase * 360)

	blend := func(from uint8, to float64) uint8 {
		return uint8(float64(from)*(1-intensity) + to*255*intensity)
	}
	return color.NRGBA{
		R: blend(base.R, red),
		G: blend(base.G, green),
		B: blend(base.B, blue),
		A: base.A,
	}
}

// hueToRGB converts a hue in degrees (full saturation and value) to RGB in
// [0, 1].
func hueToRGB(hue float64) (float64, float64, float64) {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	sector := hue / 60
	fraction := sector - math.Floor(sector)

	switch int(sector) % 6 {
	case 0:
		return 1, fraction, 0
	case 1:
		return 1 - fraction, 1, 0
	case 2:
		return 0, 1, fraction
	case 3:
		return 0, 1 - fraction, 1
	case 4:
		return fraction, 0, 1
	default:
		return 1, 0, 1 - fraction
	}
}
