package tracker

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/ball-tracker/internal/detection"
	"github.com/ironsheep/ball-tracker/internal/errdefs"
	"github.com/ironsheep/ball-tracker/internal/imaging"
)

// Result is the outcome of processing one frame.
type Result struct {
	// Index is the zero-based position of the frame in the stream.
	Index int

	// Mask is the refined segmentation mask the circles were located in.
	Mask *imaging.Mask

	// Circles are the located circles in discovery order, in coordinates of
	// the prepared frame.
	Circles []detection.Circle
}

// Pipeline runs the per-frame stages: prepare, segment, refine, locate.
// It holds no state between frames.
type Pipeline struct {
	scale     float64
	segmenter *imaging.Segmenter
	refiner   *imaging.Refiner
	locator   detection.CircleLocator
}

// NewPipeline wires the stages together. scale resizes every frame before
// segmentation; 0 or 1 keeps the original size.
func NewPipeline(segmenter *imaging.Segmenter, refiner *imaging.Refiner, locator detection.CircleLocator, scale float64) (*Pipeline, error) {
	if segmenter == nil {
		return nil, errdefs.Invalid("segment", "segmenter is required")
	}
	if refiner == nil {
		return nil, errdefs.Invalid("refine", "refiner is required")
	}
	if locator == nil {
		return nil, errdefs.Invalid("locate", "locator is required")
	}
	if scale < 0 {
		return nil, errdefs.Invalid("source.scale", "must not be negative, got %g", scale)
	}
	return &Pipeline{scale: scale, segmenter: segmenter, refiner: refiner, locator: locator}, nil
}

// Process runs every stage on frame. It returns the prepared frame (origin
// (0, 0), scaled) together with the result. A zero-area frame yields an
// empty result, not an error.
func (p *Pipeline) Process(frame image.Image) (*image.NRGBA, Result, error) {
	prepared := imaging.PrepareFrame(frame, p.scale)

	mask := p.refiner.Refine(p.segmenter.Segment(prepared))
	circles, err := p.locator.Locate(mask)
	switch {
	case errors.Is(err, errdefs.ErrInvalidInput):
		circles = []detection.Circle{}
	case err != nil:
		return prepared, Result{}, fmt.Errorf("locate circles: %w", err)
	}

	return prepared, Result{Mask: mask, Circles: circles}, nil
}
