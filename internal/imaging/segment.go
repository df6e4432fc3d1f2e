package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
)

// Segmenter isolates the pixels of a frame whose color falls inside any of a
// fixed set of HSV bands.
type Segmenter struct {
	bands []ColorBand
}

// NewSegmenter validates the bands and returns a Segmenter for them.
//
// At least one band is required. Two bands sharing saturation and value
// bounds at opposite ends of the hue axis express a range that wraps past
// 179 back to 0.
func NewSegmenter(bands ...ColorBand) (*Segmenter, error) {
	if len(bands) == 0 {
		return nil, errdefs.Invalid("segment.bands", "at least one color band is required")
	}
	for i, b := range bands {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("band %d %s: %w", i, b, err)
		}
	}
	out := make([]ColorBand, len(bands))
	copy(out, bands)
	return &Segmenter{bands: out}, nil
}

// Match reports whether an HSV value falls inside any band.
func (s *Segmenter) Match(c HSV) bool {
	for _, b := range s.bands {
		if b.Contains(c) {
			return true
		}
	}
	return false
}

// Segment builds the binary mask for frame.
//
// Returns a new Mask of the frame's dimensions in which a pixel is 255 when
// its color is inside at least one band and 0 otherwise. The union over bands
// is taken per pixel, so the result equals the saturating sum of the
// per-band masks. The frame is not modified. A zero-area frame produces a
// zero-area mask.
//
// # Algorithm
//
//  1. Normalise to NRGBA (alpha is ignored; only R, G, B are tested)
//  2. Convert each pixel to 8-bit HSV
//  3. Set the mask pixel if any band contains the HSV value
//
// Identical RGB triples are converted only once per call.
func (s *Segmenter) Segment(frame image.Image) *Mask {
	if frame == nil || frame.Bounds().Empty() {
		return NewMask(0, 0)
	}

	src, ok := frame.(*image.NRGBA)
	if !ok {
		src = imaging.Clone(frame)
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	mask := NewMask(w, h)

	seen := make(map[uint32]bool)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x := 0; x < w; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
			in, cached := seen[key]
			if !cached {
				in = s.Match(ToHSV(r, g, b))
				seen[key] = in
			}
			if in {
				out[x] = 255
			}
		}
	}
	return mask
}
