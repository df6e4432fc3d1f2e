// Package annotate draws located circles onto video frames.
package annotate

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ironsheep/ball-tracker/internal/detection"
	"github.com/ironsheep/ball-tracker/internal/errdefs"
)

var labelFont *truetype.Font

func init() {
	var err error
	labelFont, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Style controls how circles are drawn.
type Style struct {
	// MarkerColor fills a small disk at every center.
	MarkerColor  color.RGBA
	MarkerRadius float64

	// OutlineColor strokes the circle at its located radius.
	OutlineColor color.RGBA
	OutlineWidth float64

	// Label draws "N circles" in the top-left corner.
	Label      bool
	LabelColor color.RGBA
	FontSize   float64
}

// DefaultStyle returns a green 3px center marker and a red 3px outline.
func DefaultStyle() Style {
	return Style{
		MarkerColor:  color.RGBA{0, 255, 0, 255},
		MarkerRadius: 3,
		OutlineColor: color.RGBA{255, 0, 0, 255},
		OutlineWidth: 3,
		LabelColor:   color.RGBA{255, 255, 255, 255},
		FontSize:     16,
	}
}

// StyleFromHex builds a Style from hex colors, keeping the defaults for
// everything else. Empty strings keep the default color.
func StyleFromHex(marker, outline string, markerRadius, outlineWidth float64, label bool) (Style, error) {
	s := DefaultStyle()
	if marker != "" {
		c, err := ParseHexColor(marker)
		if err != nil {
			return Style{}, errdefs.Invalid("annotate.marker_color", "%v", err)
		}
		s.MarkerColor = c
	}
	if outline != "" {
		c, err := ParseHexColor(outline)
		if err != nil {
			return Style{}, errdefs.Invalid("annotate.outline_color", "%v", err)
		}
		s.OutlineColor = c
	}
	if markerRadius < 0 {
		return Style{}, errdefs.Invalid("annotate.marker_radius", "must not be negative, got %g", markerRadius)
	}
	if outlineWidth < 0 {
		return Style{}, errdefs.Invalid("annotate.outline_width", "must not be negative, got %g", outlineWidth)
	}
	s.MarkerRadius = markerRadius
	s.OutlineWidth = outlineWidth
	s.Label = label
	return s, nil
}

// Annotate draws circles onto a copy of frame and returns the copy. The
// frame itself is never modified. The copy has its origin at (0, 0); circle
// coordinates are relative to the frame's top-left corner.
func Annotate(frame image.Image, circles []detection.Circle, style Style) *image.RGBA {
	if frame.Bounds().Min != (image.Point{}) {
		frame = imaging.Clone(frame)
	}
	dc := gg.NewContextForImage(frame)

	for _, c := range circles {
		if style.MarkerRadius > 0 {
			dc.SetColor(style.MarkerColor)
			dc.DrawCircle(c.X, c.Y, style.MarkerRadius)
			dc.Fill()
		}
		if style.OutlineWidth > 0 {
			dc.SetColor(style.OutlineColor)
			dc.SetLineWidth(style.OutlineWidth)
			dc.DrawCircle(c.X, c.Y, c.Radius)
			dc.Stroke()
		}
	}

	if style.Label {
		size := style.FontSize
		if size <= 0 {
			size = 16
		}
		dc.SetFontFace(truetype.NewFace(labelFont, &truetype.Options{Size: size}))
		dc.SetColor(style.LabelColor)
		dc.DrawStringAnchored(Label(len(circles)), 4, 4, 0, 1)
	}

	return dc.Image().(*image.RGBA)
}

// Label is the text drawn in the corner of annotated frames.
func Label(count int) string {
	if count == 1 {
		return "1 circle"
	}
	return fmt.Sprintf("%d circles", count)
}
