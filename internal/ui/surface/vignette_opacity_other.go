//go:build !windows

package surface

// applyNativeOpacity is a no-op where layered windows are unavailable; the
// frame's stroke alpha carries the opacity instead.
func (vignette *vignetteSurface) applyNativeOpacity(alpha uint8) {}
