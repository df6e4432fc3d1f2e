package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestNewMask(t *testing.T) {
	m := NewMask(12, 7)
	if m.Width() != 12 || m.Height() != 7 {
		t.Errorf("dimensions: got %dx%d, want 12x7", m.Width(), m.Height())
	}
	if m.Count() != 0 {
		t.Errorf("new mask should be empty, got %d set pixels", m.Count())
	}
	if m.ZeroArea() {
		t.Error("12x7 mask reported as zero-area")
	}

	neg := NewMask(-3, 5)
	if !neg.ZeroArea() {
		t.Error("negative width should clamp to a zero-area mask")
	}
}

func TestMask_Count(t *testing.T) {
	m := NewMask(10, 10)
	m.SetGray(1, 1, color.Gray{Y: 255})
	m.SetGray(2, 2, color.Gray{Y: 1})
	m.SetGray(9, 9, color.Gray{Y: 128})

	if m.Count() != 3 {
		t.Errorf("Count: got %d, want 3", m.Count())
	}
}

func TestMask_ZeroArea(t *testing.T) {
	var nilMask *Mask
	tests := []struct {
		name string
		m    *Mask
		want bool
	}{
		{"nil", nilMask, true},
		{"nil gray", &Mask{}, true},
		{"zero width", NewMask(0, 5), true},
		{"zero height", NewMask(5, 0), true},
		{"1x1", NewMask(1, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.ZeroArea(); got != tt.want {
				t.Errorf("ZeroArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMask_SubImageCount(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 10, 10))
	g.SetGray(6, 6, color.Gray{Y: 255})
	sub := g.SubImage(image.Rect(5, 5, 10, 10)).(*image.Gray)

	m := &Mask{Gray: sub}
	if m.Width() != 5 || m.Height() != 5 {
		t.Fatalf("dimensions: got %dx%d, want 5x5", m.Width(), m.Height())
	}
	if m.Count() != 1 {
		t.Errorf("Count: got %d, want 1", m.Count())
	}
}
