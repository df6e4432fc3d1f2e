package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
)

// RefineParams configures the mask cleanup.
type RefineParams struct {
	// BlurKernel is the side of the square Gaussian kernel. Odd, >= 1.
	BlurKernel int `json:"blur_kernel"`

	// MorphKernel is the side of the square structuring element used for
	// dilation and erosion. Odd, >= 1.
	MorphKernel int `json:"morph_kernel"`
}

// DefaultRefineParams returns a 3x3 blur and a 3x3 rectangular structuring element.
func DefaultRefineParams() RefineParams {
	return RefineParams{BlurKernel: 3, MorphKernel: 3}
}

// Validate rejects even or non-positive kernel sizes.
func (p RefineParams) Validate() error {
	if p.BlurKernel < 1 || p.BlurKernel%2 == 0 {
		return errdefs.Invalid("refine.blur_kernel", "must be a positive odd number, got %d", p.BlurKernel)
	}
	if p.MorphKernel < 1 || p.MorphKernel%2 == 0 {
		return errdefs.Invalid("refine.morph_kernel", "must be a positive odd number, got %d", p.MorphKernel)
	}
	return nil
}

// Refiner smooths a segmentation mask and closes small gaps in it.
type Refiner struct {
	params RefineParams
	blur   convolution.Matrix
}

// NewRefiner validates params and precomputes the blur kernel.
func NewRefiner(params RefineParams) (*Refiner, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Refiner{params: params, blur: gaussianKernel(params.BlurKernel)}, nil
}

// Params returns the refiner's configuration.
func (r *Refiner) Params() RefineParams { return r.params }

// Refine returns a cleaned-up copy of mask.
//
// # Algorithm
//
// The three steps run in this order, each on the previous step's output:
//
//  1. Gaussian smoothing with a BlurKernel x BlurKernel kernel. Borders are
//     extended (replicated).
//  2. Dilation with a MorphKernel x MorphKernel square: each pixel takes the
//     maximum of its neighbourhood. Merges nearby fragments.
//  3. Erosion with the same square: each pixel takes the minimum. Removes the
//     growth added by dilation and isolated specks.
//
// Dilation followed by erosion with the same element is a morphological
// closing, but the blur in front means Refine is not idempotent. The input is
// never modified. A zero-area mask is returned as a zero-area copy.
func (r *Refiner) Refine(mask *Mask) *Mask {
	if mask.ZeroArea() {
		return NewMask(0, 0)
	}

	var img image.Image = mask.Gray
	if r.params.BlurKernel > 1 {
		img = convolution.Convolve(img, r.blur, &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true})
	}

	radius := float64(r.params.MorphKernel-1) / 2
	if radius > 0 {
		img = effect.Dilate(img, radius)
		img = effect.Erode(img, radius)
	}

	return toMask(img)
}

// toMask copies the red channel of an RGBA image into a new mask. The
// pipeline only ever feeds gray data through bild, so R == G == B.
func toMask(img image.Image) *Mask {
	b := img.Bounds()
	out := NewMask(b.Dx(), b.Dy())
	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				out.Pix[y*out.Stride+x] = src.Pix[y*src.Stride+x*4]
			}
		}
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], src.Pix[y*src.Stride:y*src.Stride+b.Dx()])
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				out.Pix[y*out.Stride+x] = uint8(r >> 8)
			}
		}
	}
	return out
}

// gaussianKernel builds a normalised size x size Gaussian kernel.
//
// Sizes up to 7 use the fixed binomial weights that vision libraries apply
// when no sigma is given. Larger sizes derive sigma from the size:
//
//	sigma = 0.3 * ((size-1)*0.5 - 1) + 0.8
func gaussianKernel(size int) convolution.Matrix {
	w := gaussianWeights(size)
	k := convolution.NewKernel(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			k.Matrix[y*size+x] = w[x] * w[y]
		}
	}
	return k.Normalized()
}

func gaussianWeights(size int) []float64 {
	switch size {
	case 1:
		return []float64{1}
	case 3:
		return []float64{0.25, 0.5, 0.25}
	case 5:
		return []float64{0.0625, 0.25, 0.375, 0.25, 0.0625}
	case 7:
		return []float64{0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125}
	}

	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2
	w := make([]float64, size)
	for i := range w {
		d := float64(i - half)
		w[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
	}
	return w
}
