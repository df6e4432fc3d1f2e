package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// PrepareFrame returns a copy of img as *image.NRGBA anchored at (0,0).
//
// Parameters:
//   - img: Frame from any source. It is never modified.
//   - scale: Resize factor. Values <= 0 or == 1 keep the original size; other
//     values resize with the Linear filter, which is cheap enough per frame.
//
// A zero-area input yields a zero-area NRGBA image rather than an error.
func PrepareFrame(img image.Image, scale float64) *image.NRGBA {
	if img == nil || img.Bounds().Empty() {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	frame := imaging.Clone(img)
	if scale <= 0 || scale == 1.0 {
		return frame
	}

	w := int(float64(frame.Bounds().Dx()) * scale)
	h := int(float64(frame.Bounds().Dy()) * scale)
	if w < 1 || h < 1 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	return imaging.Resize(frame, w, h, imaging.Linear)
}
