//go:build gocv

package detection

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
	"github.com/ironsheep/ball-tracker/internal/imaging"
)

// OpenCVLocator runs OpenCV's HoughCircles (gradient method) on the mask.
//
// EdgeHighThreshold is passed as the internal Canny high threshold; OpenCV
// derives the low threshold as half of it, so EdgeLowThreshold is ignored.
// VoteThreshold is the accumulator threshold.
type OpenCVLocator struct {
	params Params
}

// NewOpenCVLocator validates params and returns an OpenCVLocator.
func NewOpenCVLocator(params Params) (*OpenCVLocator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &OpenCVLocator{params: params}, nil
}

// Params returns the locator's configuration.
func (l *OpenCVLocator) Params() Params { return l.params }

// Locate finds circles in mask. Same contract as Locator.Locate.
func (l *OpenCVLocator) Locate(mask *imaging.Mask) ([]Circle, error) {
	if mask.ZeroArea() {
		return nil, fmt.Errorf("locate circles in empty mask: %w", errdefs.ErrInvalidInput)
	}

	mat, err := gocv.ImageGrayToMatGray(mask.Gray)
	if err != nil {
		return nil, fmt.Errorf("failed to convert mask: %w", err)
	}
	defer mat.Close()

	circles := gocv.NewMat()
	defer circles.Close()

	p := l.params
	gocv.HoughCirclesWithParams(mat, &circles, gocv.HoughGradient,
		p.Resolution, p.MinDistanceFor(mask.Height()),
		p.EdgeHighThreshold, float64(p.VoteThreshold),
		p.RadiusMin, p.RadiusMax)

	if circles.Empty() || circles.Cols() == 0 {
		return []Circle{}, nil
	}

	out := make([]Circle, circles.Cols())
	for i := 0; i < circles.Cols(); i++ {
		out[i] = Circle{
			X:      float64(circles.GetFloatAt(0, i*3)),
			Y:      float64(circles.GetFloatAt(0, i*3+1)),
			Radius: float64(circles.GetFloatAt(0, i*3+2)),
		}
	}
	return out, nil
}

// OpenCVAvailable reports whether the OpenCV backend is compiled in.
func OpenCVAvailable() bool { return true }
