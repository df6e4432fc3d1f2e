package annotate

import (
	"fmt"
	"image/color"
	"strconv"
)

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
// The leading '#' is optional.
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	switch len(hex) {
	case 6:
		return color.RGBA{uint8(val >> 16), uint8(val >> 8), uint8(val), 255}, nil
	case 8:
		return color.RGBA{uint8(val >> 24), uint8(val >> 16), uint8(val >> 8), uint8(val)}, nil
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length %d", len(hex))
	}
}
