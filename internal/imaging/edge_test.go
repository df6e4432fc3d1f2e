package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"
)

// createEdgeTestImage draws a black square on a white background
func createEdgeTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= width/4 && x < 3*width/4 && y >= height/4 && y < 3*height/4 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

func TestCanny_VerticalStepIsOnePixelWide(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			g.Pix[y*g.Stride+x] = 255
		}
	}

	em := Canny(g, 50, 100)

	for y := 0; y < 10; y++ {
		n := 0
		for x := 0; x < 20; x++ {
			if isEdge(em, x, y) {
				n++
				if x != 9 {
					t.Errorf("row %d: edge at x=%d, want x=9", y, x)
				}
			}
		}
		if n != 1 {
			t.Errorf("row %d: %d edge pixels, want 1", y, n)
		}
	}

	// 0 -> 255 step under a 3x3 Sobel.
	if gx := em.DX[5*20+9]; gx != 1020 {
		t.Errorf("DX at step: got %f, want 1020", gx)
	}
	if gy := em.DY[5*20+9]; gy != 0 {
		t.Errorf("DY at step: got %f, want 0", gy)
	}
}

func TestCanny_UniformImage(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 30, 30))
	for i := range g.Pix {
		g.Pix[i] = 128
	}

	if n := Canny(g, 10, 20).Count(); n != 0 {
		t.Errorf("uniform image: got %d edge pixels, want 0", n)
	}
}

func TestCanny_Hysteresis(t *testing.T) {
	// A strong step (0->255) on the left half of a column continues as a weak
	// step (0->40) on the bottom half. The weak part survives only through its
	// connection to the strong part.
	g := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			if y < 10 {
				g.Pix[y*g.Stride+x] = 255
			} else {
				g.Pix[y*g.Stride+x] = 40
			}
		}
	}

	connected := Canny(g, 100, 500)
	if !isEdge(connected, 9, 15) {
		t.Error("weak edge connected to a strong edge should be kept")
	}

	isolated := Canny(g, 100, 2000)
	if isolated.Count() != 0 {
		t.Errorf("no strong seeds: got %d edge pixels, want 0", isolated.Count())
	}
}

func TestCanny_ZeroArea(t *testing.T) {
	em := Canny(image.NewGray(image.Rect(0, 0, 0, 0)), 50, 100)
	if em.Width != 0 || em.Height != 0 || em.Count() != 0 {
		t.Errorf("zero-area: got %dx%d with %d edges", em.Width, em.Height, em.Count())
	}
	if isEdge(em, 0, 0) {
		t.Error("out-of-range pixels are not edges")
	}
}

func TestCanny_DiskEdgeRing(t *testing.T) {
	m := diskMask(100, 100, 50, 50, 25)
	em := Canny(m.Gray, 50, 100)

	if em.Count() == 0 {
		t.Fatal("expected edges around the disk")
	}
	for y := 0; y < em.Height; y++ {
		for x := 0; x < em.Width; x++ {
			if !isEdge(em, x, y) {
				continue
			}
			d := math.Hypot(float64(x-50), float64(y-50))
			if d < 23 || d > 27 {
				t.Errorf("edge pixel (%d,%d) at distance %.1f, want about 25", x, y, d)
			}
		}
	}
}

func TestEdgeDetect(t *testing.T) {
	img := createEdgeTestImage(100, 100)

	result, err := EdgeDetect(img, 50, 100)
	if err != nil {
		t.Fatalf("EdgeDetect failed: %v", err)
	}

	if result.Width != 100 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if result.EdgePixels == 0 {
		t.Error("expected edge pixels around the square")
	}

	decoded, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	edgeImg, err := png.Decode(strings.NewReader(string(decoded)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if edgeImg.Bounds().Dx() != 100 || edgeImg.Bounds().Dy() != 100 {
		t.Errorf("decoded image dimensions: got %dx%d, want 100x100",
			edgeImg.Bounds().Dx(), edgeImg.Bounds().Dy())
	}
}

func TestToGray(t *testing.T) {
	img := createInMemoryImage(2, 2, color.RGBA{255, 0, 0, 255})
	g := ToGray(img)
	// 0.299 * 255 = 76.2
	if g.GrayAt(0, 0).Y != 76 {
		t.Errorf("red luminance: got %d, want 76", g.GrayAt(0, 0).Y)
	}

	already := image.NewGray(image.Rect(0, 0, 1, 1))
	if ToGray(already) != already {
		t.Error("*image.Gray input should be returned unchanged")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 0, 0},
	}

	for _, tt := range tests {
		if got := clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

// isEdge reports whether (x, y) is an edge pixel; out-of-range is not
func isEdge(e *EdgeMap, x, y int) bool {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return false
	}
	return e.Edge[y*e.Width+x]
}
