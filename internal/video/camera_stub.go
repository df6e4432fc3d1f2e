//go:build !gocv

package video

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
)

// Camera is unavailable without the gocv build tag.
type Camera struct{}

// OpenCamera always fails: rebuild with -tags gocv for camera capture.
func OpenCamera(device int) (*Camera, error) {
	return nil, fmt.Errorf("%w: camera %d: built without OpenCV support (build with -tags gocv)", errdefs.ErrSourceUnavailable, device)
}

// Next never returns a frame.
func (c *Camera) Next(context.Context) (image.Image, error) {
	return nil, errdefs.ErrSourceUnavailable
}

// Close does nothing.
func (c *Camera) Close() error { return nil }
