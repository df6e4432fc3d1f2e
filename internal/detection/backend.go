package detection

import (
	"strings"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
	"github.com/ironsheep/ball-tracker/internal/imaging"
)

// CircleLocator is implemented by every circle locating backend.
type CircleLocator interface {
	Locate(mask *imaging.Mask) ([]Circle, error)
	Params() Params
}

// Backend names accepted by NewBackend.
const (
	BackendHough  = "hough"
	BackendOpenCV = "opencv"
)

// NewBackend returns the locator for the named backend. An empty name selects
// the pure Go Hough locator.
func NewBackend(name string, params Params) (CircleLocator, error) {
	switch strings.ToLower(name) {
	case "", BackendHough:
		return NewLocator(params)
	case BackendOpenCV:
		return NewOpenCVLocator(params)
	default:
		return nil, errdefs.Invalid("locate.backend", "unknown backend %q (want %s or %s)", name, BackendHough, BackendOpenCV)
	}
}
