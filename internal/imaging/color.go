package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
)

// Channel limits for 8-bit HSV.
const (
	MaxHue        = 179
	MaxSaturation = 255
	MaxValue      = 255
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSV is a color in 8-bit HSV space.
//
// H is measured in half-degrees so that the full color wheel fits in a byte:
//   - 0 = red, 30 = yellow, 60 = green, 90 = cyan, 120 = blue, 150 = magenta
//   - 179 is adjacent to 0
type HSV struct {
	H uint8 `json:"h"` // Hue: 0-179 (degrees / 2)
	S uint8 `json:"s"` // Saturation: 0-255
	V uint8 `json:"v"` // Value: 0-255
}

// String formats the color as "(h,s,v)".
func (c HSV) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.H, c.S, c.V)
}

// ToHSV converts 8-bit RGB components to 8-bit HSV.
//
// The conversion is done by go-colorful in floating point and then quantised:
//
//	H = round(hue° / 2) mod 180
//	S = round(s * 255)
//	V = round(v * 255)
//
// Achromatic colors (r == g == b) have H = 0 and S = 0.
func ToHSV(r, g, b uint8) HSV {
	c := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
	h, s, v := c.Hsv()
	return HSV{
		H: uint8(int(math.Round(h/2)) % (MaxHue + 1)),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

// ColorBand is an inclusive HSV range. A pixel is inside the band when every
// channel lies between the corresponding Lower and Upper bound.
type ColorBand struct {
	Lower HSV `json:"lower"`
	Upper HSV `json:"upper"`
}

// Contains reports whether c lies inside the band.
func (b ColorBand) Contains(c HSV) bool {
	return c.H >= b.Lower.H && c.H <= b.Upper.H &&
		c.S >= b.Lower.S && c.S <= b.Upper.S &&
		c.V >= b.Lower.V && c.V <= b.Upper.V
}

// Validate checks that lower <= upper on every channel and that the hue
// bounds fit the 0-179 range.
func (b ColorBand) Validate() error {
	switch {
	case b.Lower.H > MaxHue || b.Upper.H > MaxHue:
		return errdefs.Invalid("band.hue", "bounds %d-%d exceed %d", b.Lower.H, b.Upper.H, MaxHue)
	case b.Lower.H > b.Upper.H:
		return errdefs.Invalid("band.hue", "lower %d > upper %d", b.Lower.H, b.Upper.H)
	case b.Lower.S > b.Upper.S:
		return errdefs.Invalid("band.saturation", "lower %d > upper %d", b.Lower.S, b.Upper.S)
	case b.Lower.V > b.Upper.V:
		return errdefs.Invalid("band.value", "lower %d > upper %d", b.Lower.V, b.Upper.V)
	}
	return nil
}

// String formats the band as "(h,s,v)-(h,s,v)".
func (b ColorBand) String() string {
	return b.Lower.String() + "-" + b.Upper.String()
}

// SplitWrapBand builds the bands for a hue range that may cross the 179/0
// boundary.
//
// When hueFrom <= hueTo a single band is returned. Otherwise the range wraps
// and two bands with identical saturation and value bounds are returned:
// [hueFrom, 179] followed by [0, hueTo]. For example 165 -> 18 describes red.
func SplitWrapBand(hueFrom, hueTo, sMin, sMax, vMin, vMax uint8) []ColorBand {
	if hueFrom <= hueTo {
		return []ColorBand{{
			Lower: HSV{H: hueFrom, S: sMin, V: vMin},
			Upper: HSV{H: hueTo, S: sMax, V: vMax},
		}}
	}
	return []ColorBand{
		{Lower: HSV{H: hueFrom, S: sMin, V: vMin}, Upper: HSV{H: MaxHue, S: sMax, V: vMax}},
		{Lower: HSV{H: 0, S: sMin, V: vMin}, Upper: HSV{H: hueTo, S: sMax, V: vMax}},
	}
}

// ColorResult contains a color value in the representations useful when
// tuning bands by hand.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSV HSV      `json:"hsv"` // 8-bit HSV, directly comparable with band bounds
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) as hex, RGB and 8-bit HSV.
//   - error: Non-nil if coordinates are outside the image bounds.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c, _ := colorful.MakeColor(img.At(x, y))
	r8, g8, b8 := c.RGB255()

	return &ColorResult{
		Hex: fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSV: ToHSV(r8, g8, b8),
	}, nil
}
