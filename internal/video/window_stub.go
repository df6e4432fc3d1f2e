//go:build !gocv

package video

import (
	"image"

	"github.com/ironsheep/ball-tracker/internal/annotate"
	"github.com/ironsheep/ball-tracker/internal/errdefs"
	"github.com/ironsheep/ball-tracker/internal/tracker"
)

// Window is unavailable without the gocv build tag.
type Window struct{}

// NewWindow always fails: rebuild with -tags gocv for on-screen display.
func NewWindow(frameTitle, maskTitle string, style annotate.Style) (*Window, error) {
	return nil, errdefs.Invalid("display.window", "built without OpenCV support (build with -tags gocv)")
}

// Show does nothing.
func (w *Window) Show(image.Image, tracker.Result) error { return nil }

// Continue always stops.
func (w *Window) Continue() bool { return false }

// Close does nothing.
func (w *Window) Close() error { return nil }
