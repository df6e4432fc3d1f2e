package imaging

import (
	"image"
)

// Mask is a single-channel image with the same dimensions as the frame it was
// derived from. Segmentation writes 0 (unset) or 255 (set); refinement may
// leave intermediate values, which later stages treat as intensities.
type Mask struct {
	*image.Gray
}

// NewMask allocates an all-zero mask of the given size anchored at (0,0).
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{Gray: image.NewGray(image.Rect(0, 0, width, height))}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.Bounds().Dx() }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.Bounds().Dy() }

// ZeroArea reports whether either dimension is zero.
func (m *Mask) ZeroArea() bool {
	return m == nil || m.Gray == nil || m.Bounds().Empty()
}

// Count returns the number of non-zero pixels.
func (m *Mask) Count() int {
	if m.ZeroArea() {
		return 0
	}
	n := 0
	w, h := m.Width(), m.Height()
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+w]
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
