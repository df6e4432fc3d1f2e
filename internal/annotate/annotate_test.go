package annotate

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ball-tracker/internal/detection"
	"github.com/ironsheep/ball-tracker/internal/errdefs"
)

func blackFrame(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img
}

func rgbAt(img image.Image, x, y int) [3]uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func TestAnnotate_MarkerAndOutline(t *testing.T) {
	frame := blackFrame(100, 100)
	circles := []detection.Circle{{X: 50, Y: 50, Radius: 20}}

	out := Annotate(frame, circles, DefaultStyle())
	require.NotNil(t, out)
	assert.Equal(t, frame.Bounds(), out.Bounds())

	assert.Equal(t, [3]uint8{0, 255, 0}, rgbAt(out, 50, 50), "center marker")
	assert.Equal(t, [3]uint8{255, 0, 0}, rgbAt(out, 70, 50), "outline on the right")
	assert.Equal(t, [3]uint8{255, 0, 0}, rgbAt(out, 50, 30), "outline on top")
	assert.Equal(t, [3]uint8{0, 0, 0}, rgbAt(out, 60, 50), "between marker and outline")
	assert.Equal(t, [3]uint8{0, 0, 0}, rgbAt(out, 5, 5), "background")
}

func TestAnnotate_DoesNotModifyFrame(t *testing.T) {
	frame := blackFrame(60, 60)
	Annotate(frame, []detection.Circle{{X: 30, Y: 30, Radius: 10}}, DefaultStyle())

	for i := 0; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] != 0 || frame.Pix[i+1] != 0 || frame.Pix[i+2] != 0 {
			t.Fatalf("frame modified at byte %d", i)
		}
	}
}

func TestAnnotate_NoCircles(t *testing.T) {
	frame := blackFrame(40, 30)
	out := Annotate(frame, nil, DefaultStyle())

	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			require.Equal(t, [3]uint8{0, 0, 0}, rgbAt(out, x, y))
		}
	}
}

func TestAnnotate_SubImageOrigin(t *testing.T) {
	big := blackFrame(200, 200)
	sub := big.SubImage(image.Rect(100, 100, 200, 200))

	out := Annotate(sub, []detection.Circle{{X: 50, Y: 50, Radius: 20}}, DefaultStyle())
	assert.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())
	assert.Equal(t, [3]uint8{0, 255, 0}, rgbAt(out, 50, 50))
}

func TestAnnotate_Label(t *testing.T) {
	lit := func(img image.Image) int {
		n := 0
		for y := 0; y < 24; y++ {
			for x := 0; x < 80; x++ {
				if rgbAt(img, x, y) != [3]uint8{0, 0, 0} {
					n++
				}
			}
		}
		return n
	}

	style := DefaultStyle()
	assert.Zero(t, lit(Annotate(blackFrame(120, 80), nil, style)))

	style.Label = true
	assert.Positive(t, lit(Annotate(blackFrame(120, 80), nil, style)))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "0 circles", Label(0))
	assert.Equal(t, "1 circle", Label(1))
	assert.Equal(t, "3 circles", Label(3))
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00ff00", color.RGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.RGBA{0, 0, 255, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GG0000", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStyleFromHex(t *testing.T) {
	s, err := StyleFromHex("#0000FF", "", 5, 2, true)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, s.MarkerColor)
	assert.Equal(t, DefaultStyle().OutlineColor, s.OutlineColor)
	assert.Equal(t, 5.0, s.MarkerRadius)
	assert.Equal(t, 2.0, s.OutlineWidth)
	assert.True(t, s.Label)

	_, err = StyleFromHex("red", "", 3, 3, false)
	assert.ErrorIs(t, err, errdefs.ErrInvalidConfiguration)

	_, err = StyleFromHex("", "", -1, 3, false)
	assert.ErrorIs(t, err, errdefs.ErrInvalidConfiguration)
}
