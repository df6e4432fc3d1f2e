package imaging

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
)

// diskMask builds a binary mask with a filled disk
func diskMask(width, height, cx, cy, radius int) *Mask {
	m := NewMask(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				m.Pix[y*m.Stride+x] = 255
			}
		}
	}
	return m
}

func TestRefineParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  RefineParams
		wantErr bool
	}{
		{"defaults", DefaultRefineParams(), false},
		{"identity", RefineParams{BlurKernel: 1, MorphKernel: 1}, false},
		{"large", RefineParams{BlurKernel: 9, MorphKernel: 5}, false},
		{"even blur", RefineParams{BlurKernel: 4, MorphKernel: 3}, true},
		{"zero morph", RefineParams{BlurKernel: 3, MorphKernel: 0}, true},
		{"negative blur", RefineParams{BlurKernel: -3, MorphKernel: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRefiner(tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewRefiner() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errdefs.ErrInvalidConfiguration) {
				t.Errorf("error %v does not wrap ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestRefine_FillsPinhole(t *testing.T) {
	r, err := NewRefiner(DefaultRefineParams())
	if err != nil {
		t.Fatalf("NewRefiner failed: %v", err)
	}

	m := diskMask(60, 60, 30, 30, 15)
	m.Pix[30*m.Stride+30] = 0

	out := r.Refine(m)
	if out.GrayAt(30, 30).Y == 0 {
		t.Error("single-pixel hole should be closed by dilate+erode")
	}
}

func TestRefine_PreservesDisk(t *testing.T) {
	r, _ := NewRefiner(DefaultRefineParams())
	m := diskMask(80, 80, 40, 40, 20)

	out := r.Refine(m)

	if out.Width() != 80 || out.Height() != 80 {
		t.Fatalf("dimensions: got %dx%d, want 80x80", out.Width(), out.Height())
	}
	if out.GrayAt(40, 40).Y < 250 {
		t.Errorf("disk interior: got %d, want close to 255", out.GrayAt(40, 40).Y)
	}
	if out.GrayAt(2, 2).Y != 0 {
		t.Errorf("background: got %d, want 0", out.GrayAt(2, 2).Y)
	}

	// The set area stays within a ring of the original boundary.
	in, outCount := m.Count(), out.Count()
	if math.Abs(float64(outCount-in)) > 2*math.Pi*20*2 {
		t.Errorf("refined count %d too far from original %d", outCount, in)
	}
}

func TestRefine_DoesNotModifyInput(t *testing.T) {
	r, _ := NewRefiner(DefaultRefineParams())
	m := diskMask(40, 40, 20, 20, 10)
	before := append([]uint8(nil), m.Pix...)

	r.Refine(m)

	for i := range m.Pix {
		if m.Pix[i] != before[i] {
			t.Fatalf("input mask modified at %d", i)
		}
	}
}

func TestRefine_EmptyMask(t *testing.T) {
	r, _ := NewRefiner(DefaultRefineParams())

	out := r.Refine(NewMask(50, 40))
	if out.Count() != 0 {
		t.Errorf("all-zero mask: got %d set pixels, want 0", out.Count())
	}

	if !r.Refine(NewMask(0, 0)).ZeroArea() {
		t.Error("zero-area mask should stay zero-area")
	}
}

func TestRefine_Identity(t *testing.T) {
	r, _ := NewRefiner(RefineParams{BlurKernel: 1, MorphKernel: 1})
	m := diskMask(30, 30, 15, 15, 7)

	out := r.Refine(m)
	for i := range m.Pix {
		if out.Pix[i] != m.Pix[i] {
			t.Fatalf("1x1 kernels should not change the mask (byte %d)", i)
		}
	}
}

func TestGaussianKernel_Normalised(t *testing.T) {
	for _, size := range []int{1, 3, 5, 7, 9, 11} {
		k := gaussianKernel(size)
		sum := 0.0
		for y := 0; y < k.MaxY(); y++ {
			for x := 0; x < k.MaxX(); x++ {
				sum += k.At(x, y)
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("size %d: kernel sums to %f, want 1", size, sum)
		}
		if k.MaxX() != size || k.MaxY() != size {
			t.Errorf("size %d: got %dx%d", size, k.MaxX(), k.MaxY())
		}
	}
}
