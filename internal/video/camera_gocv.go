//go:build gocv

package video

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
)

// Camera reads frames from a local capture device.
type Camera struct {
	device int
	webcam *gocv.VideoCapture
	frame  gocv.Mat
}

// OpenCamera opens capture device number device (0 is the first webcam).
func OpenCamera(device int) (*Camera, error) {
	webcam, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("%w: camera %d: %w", errdefs.ErrSourceUnavailable, device, err)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return nil, fmt.Errorf("%w: camera %d not opened", errdefs.ErrSourceUnavailable, device)
	}
	return &Camera{device: device, webcam: webcam, frame: gocv.NewMat()}, nil
}

// Next grabs the next frame. A failed grab or an empty frame is a frame read
// failure.
func (c *Camera) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.webcam.IsOpened() {
		return nil, fmt.Errorf("%w: camera %d closed", errdefs.ErrFrameRead, c.device)
	}
	if ok := c.webcam.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, fmt.Errorf("%w: frame not read from camera %d", errdefs.ErrFrameRead, c.device)
	}

	img, err := c.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errdefs.ErrFrameRead, err)
	}
	return img, nil
}

// Close releases the device.
func (c *Camera) Close() error {
	c.frame.Close()
	return c.webcam.Close()
}
