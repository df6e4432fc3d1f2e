//go:build !gocv

package detection

import (
	"github.com/ironsheep/ball-tracker/internal/errdefs"
	"github.com/ironsheep/ball-tracker/internal/imaging"
)

// OpenCVLocator is unavailable without the gocv build tag.
type OpenCVLocator struct{}

// NewOpenCVLocator always fails: rebuild with -tags gocv to use OpenCV.
func NewOpenCVLocator(Params) (*OpenCVLocator, error) {
	return nil, errdefs.Invalid("locate.backend", "opencv backend not compiled in (build with -tags gocv)")
}

// Params returns the zero Params.
func (l *OpenCVLocator) Params() Params { return Params{} }

// Locate is never reachable; NewOpenCVLocator never returns a locator.
func (l *OpenCVLocator) Locate(*imaging.Mask) ([]Circle, error) {
	return nil, errdefs.Invalid("locate.backend", "opencv backend not compiled in")
}

// OpenCVAvailable reports whether the OpenCV backend is compiled in.
func OpenCVAvailable() bool { return false }
