package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
)

// EdgeMap is the output of Canny: a thinned binary edge set together with the
// Sobel gradients it was computed from. Slices are row-major, Width*Height long.
type EdgeMap struct {
	Width  int
	Height int

	// Edge marks accepted edge pixels.
	Edge []bool

	// DX and DY are the 3x3 Sobel derivatives of the input.
	DX []float64
	DY []float64
}

// Count returns the number of edge pixels.
func (e *EdgeMap) Count() int {
	n := 0
	for _, v := range e.Edge {
		if v {
			n++
		}
	}
	return n
}

// Gray renders the edge set as a grayscale image with edges at 255.
func (e *EdgeMap) Gray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, e.Width, e.Height))
	for i, v := range e.Edge {
		if v {
			out.Pix[(i/e.Width)*out.Stride+i%e.Width] = 255
		}
	}
	return out
}

// Canny runs Canny edge detection on a grayscale image.
//
// Parameters:
//   - gray: Source intensities (0-255). Not modified.
//   - low: Weak threshold. Pixels with gradient magnitude above it survive
//     only when 8-connected to a strong pixel.
//   - high: Strong threshold. Pixels with gradient magnitude above it seed edges.
//
// # Algorithm
//
//  1. Gradient: 3x3 Sobel with replicated borders, magnitude = |Gx| + |Gy|.
//     No pre-smoothing; callers blur first when they need it.
//  2. Non-maximum suppression along the gradient direction quantised to
//     0°, 45°, 90° or 135°. The comparison is strict against the preceding
//     neighbour and non-strict against the following one, so a plateau two
//     pixels wide keeps exactly one pixel.
//  3. Hysteresis: a breadth-first walk from every strong pixel over
//     8-connected weak pixels.
//
// Thresholds are on the raw Sobel scale: a hard 0 -> 255 step has a
// magnitude of 1020.
func Canny(gray *image.Gray, low, high float64) *EdgeMap {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	em := &EdgeMap{
		Width:  w,
		Height: h,
		Edge:   make([]bool, w*h),
		DX:     make([]float64, w*h),
		DY:     make([]float64, w*h),
	}
	if w == 0 || h == 0 {
		return em
	}

	at := func(x, y int) float64 {
		x = clamp(x, 0, w-1)
		y = clamp(y, 0, h-1)
		return float64(gray.Pix[y*gray.Stride+x])
	}

	mag := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := (at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x-1, y) + at(x-1, y+1))
			gy := (at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x, y-1) + at(x+1, y-1))
			i := y*w + x
			em.DX[i] = gx
			em.DY[i] = gy
			mag[i] = math.Abs(gx) + math.Abs(gy)
		}
	}

	magAt := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	// tan(22.5°) and tan(67.5°)
	const tg22 = 0.41421356237309504880
	const tg67 = 2.41421356237309504880

	const (
		none = iota
		weak
		strong
	)
	state := make([]uint8, w*h)
	queue := make([]int, 0, 256)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}

			gx, gy := em.DX[i], em.DY[i]
			ax, ay := math.Abs(gx), math.Abs(gy)

			var n1, n2 float64
			switch {
			case ay <= ax*tg22:
				n1, n2 = magAt(x-1, y), magAt(x+1, y)
			case ay >= ax*tg67:
				n1, n2 = magAt(x, y-1), magAt(x, y+1)
			case (gx < 0) != (gy < 0):
				n1, n2 = magAt(x+1, y-1), magAt(x-1, y+1)
			default:
				n1, n2 = magAt(x-1, y-1), magAt(x+1, y+1)
			}
			if !(m > n1 && m >= n2) {
				continue
			}

			if m > high {
				state[i] = strong
				queue = append(queue, i)
			} else {
				state[i] = weak
			}
		}
	}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if em.Edge[i] {
			continue
		}
		em.Edge[i] = true
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == weak && !em.Edge[j] {
					state[j] = strong
					queue = append(queue, j)
				}
			}
		}
	}

	return em
}

// ToGray converts any image to 8-bit luminance using ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B). A *image.Gray input is returned as is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(x+b.Min.X, y+b.Min.Y).RGBA()
			out.Pix[y*out.Stride+x] = uint8(0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8) + 0.5)
		}
	}
	return out
}

// EdgeDetectResult contains an edge-detected image encoded as base64 PNG.
//
// The result is a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
type EdgeDetectResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// EdgePixels is the number of pixels marked as edges.
	EdgePixels int `json:"edge_pixels"`

	// ImageBase64 is the edge image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png" for edge detection results.
	MimeType string `json:"mime_type"`
}

// EdgeDetect runs Canny on the luminance of img and returns the edge image as
// a base64 PNG. It shows what the circle locator sees when given the same
// thresholds.
//
// Parameters:
//   - img: Source image (color or grayscale). Masks can be passed directly.
//   - thresholdLow, thresholdHigh: Hysteresis thresholds on the Sobel
//     magnitude scale (see Canny). Typical for masks: 50 and 100.
//
// Returns:
//   - *EdgeDetectResult: Grayscale edge image as base64 PNG.
//   - error: Non-nil if PNG encoding fails.
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh float64) (*EdgeDetectResult, error) {
	em := Canny(ToGray(img), thresholdLow, thresholdHigh)

	encoded, err := EncodePNGBase64(em.Gray())
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	return &EdgeDetectResult{
		Width:       em.Width,
		Height:      em.Height,
		EdgePixels:  em.Count(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// EncodePNGBase64 encodes img as PNG and returns it base64 encoded.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
