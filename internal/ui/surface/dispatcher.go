package surface

import "fyne.io/fyne/v2"

// FyneDispatcher routes presentation commands onto the fyne event loop,
// which owns every window. Do is fire-and-forget, DoWait blocks until the
// command ran.
type FyneDispatcher struct{}

// Do submits a command without waiting for it.
func (FyneDispatcher) Do(fn func()) {
	fyne.Do(fn)
}

// DoWait submits a command and blocks until it completed.
func (FyneDispatcher) DoWait(fn func()) {
	fyne.DoAndWait(fn)
}
