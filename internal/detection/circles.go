package detection

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/multierr"

	"github.com/ironsheep/ball-tracker/internal/errdefs"
	"github.com/ironsheep/ball-tracker/internal/imaging"
)

// Circle is a located circle in pixel coordinates of the mask it came from.
type Circle struct {
	// X is the horizontal center position (0 = leftmost pixel).
	X float64 `json:"x"`

	// Y is the vertical center position (0 = topmost pixel).
	Y float64 `json:"y"`

	// Radius is the estimated radius in pixels.
	Radius float64 `json:"radius"`

	// Votes is the number of edge pixels within two pixels of the circle.
	Votes int `json:"votes"`
}

// Params configures the circle locator.
type Params struct {
	// MinDistance is the minimum distance in pixels between the centers of
	// two reported circles. When zero, MinDistanceFraction is used instead.
	MinDistance float64 `json:"min_distance"`

	// MinDistanceFraction sets the minimum center distance as a fraction of
	// the mask height, resolved for every mask. Only used when MinDistance is 0.
	MinDistanceFraction float64 `json:"min_distance_fraction"`

	// RadiusMin and RadiusMax bound the radii searched, in pixels.
	RadiusMin int `json:"radius_min"`
	RadiusMax int `json:"radius_max"`

	// EdgeHighThreshold and EdgeLowThreshold are the Canny hysteresis
	// thresholds on the Sobel magnitude scale.
	EdgeHighThreshold float64 `json:"edge_high_threshold"`
	EdgeLowThreshold  float64 `json:"edge_low_threshold"`

	// Resolution is the inverse accumulator resolution: 1 votes at full
	// resolution, 2 at half width and height.
	Resolution float64 `json:"resolution"`

	// VoteThreshold is the number of votes a center needs to be considered,
	// and the number of edge pixels a radius needs to be accepted.
	VoteThreshold int `json:"vote_threshold"`
}

// DefaultParams returns parameters tuned for a ball filling between 10 and
// 400 pixels of radius in a segmented webcam frame.
func DefaultParams() Params {
	return Params{
		MinDistanceFraction: 0.25,
		RadiusMin:           10,
		RadiusMax:           400,
		EdgeHighThreshold:   100,
		EdgeLowThreshold:    50,
		Resolution:          2,
		VoteThreshold:       50,
	}
}

// Validate reports every out-of-range or inconsistent parameter. The
// returned error matches errdefs.ErrInvalidConfiguration.
func (p Params) Validate() error {
	var err error
	if p.MinDistance < 0 {
		err = multierr.Append(err, errdefs.Invalid("locate.min_distance", "must be positive, got %g", p.MinDistance))
	}
	if p.MinDistanceFraction < 0 {
		err = multierr.Append(err, errdefs.Invalid("locate.min_distance_fraction", "must be positive, got %g", p.MinDistanceFraction))
	}
	if p.MinDistance == 0 && p.MinDistanceFraction == 0 {
		err = multierr.Append(err, errdefs.Invalid("locate.min_distance", "one of min_distance or min_distance_fraction must be set"))
	}
	if p.RadiusMin < 0 {
		err = multierr.Append(err, errdefs.Invalid("locate.radius_min", "must not be negative, got %d", p.RadiusMin))
	}
	if p.RadiusMax <= 0 {
		err = multierr.Append(err, errdefs.Invalid("locate.radius_max", "must be positive, got %d", p.RadiusMax))
	}
	if p.RadiusMin > p.RadiusMax {
		err = multierr.Append(err, errdefs.Invalid("locate.radius_min", "%d exceeds radius_max %d", p.RadiusMin, p.RadiusMax))
	}
	if p.Resolution < 1 {
		err = multierr.Append(err, errdefs.Invalid("locate.resolution", "must be >= 1, got %g", p.Resolution))
	}
	if p.EdgeHighThreshold <= 0 {
		err = multierr.Append(err, errdefs.Invalid("locate.edge_high", "must be positive, got %g", p.EdgeHighThreshold))
	}
	if p.EdgeLowThreshold < 0 {
		err = multierr.Append(err, errdefs.Invalid("locate.edge_low", "must not be negative, got %g", p.EdgeLowThreshold))
	}
	if p.EdgeLowThreshold > p.EdgeHighThreshold {
		err = multierr.Append(err, errdefs.Invalid("locate.edge_low", "%g exceeds edge_high %g", p.EdgeLowThreshold, p.EdgeHighThreshold))
	}
	if p.VoteThreshold <= 0 {
		err = multierr.Append(err, errdefs.Invalid("locate.vote_threshold", "must be positive, got %d", p.VoteThreshold))
	}
	return err
}

// MinDistanceFor resolves the minimum center distance for a mask with the
// given number of rows.
func (p Params) MinDistanceFor(rows int) float64 {
	if p.MinDistance > 0 {
		return p.MinDistance
	}
	return p.MinDistanceFraction * float64(rows)
}

// Locator finds circles in refined masks with a gradient Hough transform.
// It holds no per-frame state and is safe for concurrent use.
type Locator struct {
	params Params
}

// NewLocator validates params and returns a Locator.
func NewLocator(params Params) (*Locator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Locator{params: params}, nil
}

// Params returns the locator's configuration.
func (l *Locator) Params() Params { return l.params }

// Locate finds circles in mask.
//
// Returns the accepted circles in discovery order (strongest center first).
// An empty slice is a valid result. A mask with a zero dimension returns an
// error matching errdefs.ErrInvalidInput.
//
// # Algorithm (Hough gradient with circle fitting)
//
//  1. Edges: Canny with the configured thresholds. The direction of an edge
//     pixel is the sum of the Sobel gradients in the 5x5 window around it,
//     which keeps stair-stepped mask borders from skewing the votes.
//  2. Voting: every edge pixel walks along its direction, both ways, for each
//     radius in [RadiusMin, RadiusMax] and adds one vote to the accumulator
//     cell it lands in. The accumulator is the mask downscaled by Resolution.
//     A walk stops at the accumulator border.
//  3. Centers: the support of a cell is the vote total of its 3x3
//     neighbourhood. Cells with support above VoteThreshold that are local
//     maxima of support (strictly greater than left and upper neighbours, at
//     least equal to right and lower ones) are candidates, sorted by support
//     with ties in row-major order. Each starts at the vote-weighted centroid
//     of its 3x3 cells.
//  4. Fitting: candidates within the minimum distance of an accepted circle
//     are skipped. The others get a starting radius from the densest shell of
//     edge distances, then a few rounds of least-squares circle fitting on
//     the edge pixels near the current circle (see fitCircle). A fit is
//     accepted when enough edge pixels lie on it and its center is still
//     clear of every accepted circle. The edge pixels of an accepted circle
//     are left out of later fits.
//
// Results are deterministic for a given mask and Params.
func (l *Locator) Locate(mask *imaging.Mask) ([]Circle, error) {
	if mask.ZeroArea() {
		w, h := 0, 0
		if mask != nil && mask.Gray != nil {
			w, h = mask.Width(), mask.Height()
		}
		return nil, fmt.Errorf("locate circles in %dx%d mask: %w", w, h, errdefs.ErrInvalidInput)
	}

	p := l.params
	edges := imaging.Canny(mask.Gray, p.EdgeLowThreshold, p.EdgeHighThreshold)
	points := edgePoints(edges)
	if len(points) == 0 {
		return []Circle{}, nil
	}

	acc := newAccumulator(edges.Width, edges.Height, p.Resolution)
	acc.vote(points, p.RadiusMin, p.RadiusMax)
	centers := acc.centers(p.VoteThreshold)

	return fitCircles(points, centers, p, p.MinDistanceFor(mask.Height())), nil
}

// directionRadius is the half-width of the window whose gradients are summed
// into an edge pixel's direction.
const directionRadius = 2

// point is an edge pixel with its unit gradient direction. The direction is
// zero when the gradients around the pixel cancel out.
type point struct {
	x, y   int
	ux, uy float64
}

func edgePoints(e *imaging.EdgeMap) []point {
	points := make([]point, 0, 256)
	for y := 0; y < e.Height; y++ {
		for x := 0; x < e.Width; x++ {
			if !e.Edge[y*e.Width+x] {
				continue
			}

			var gx, gy float64
			for j := max(y-directionRadius, 0); j <= min(y+directionRadius, e.Height-1); j++ {
				for i := max(x-directionRadius, 0); i <= min(x+directionRadius, e.Width-1); i++ {
					gx += e.DX[j*e.Width+i]
					gy += e.DY[j*e.Width+i]
				}
			}

			pt := point{x: x, y: y}
			if norm := math.Hypot(gx, gy); norm > 0 {
				pt.ux, pt.uy = gx/norm, gy/norm
			}
			points = append(points, pt)
		}
	}
	return points
}

// accumulator is the Hough voting grid at 1/dp of the mask resolution.
type accumulator struct {
	w, h  int
	dp    float64
	votes []int
}

func newAccumulator(width, height int, dp float64) *accumulator {
	w := int(math.Ceil(float64(width) / dp))
	h := int(math.Ceil(float64(height) / dp))
	return &accumulator{w: w, h: h, dp: dp, votes: make([]int, w*h)}
}

func (a *accumulator) at(x, y int) int {
	if x < 0 || y < 0 || x >= a.w || y >= a.h {
		return 0
	}
	return a.votes[y*a.w+x]
}

func (a *accumulator) vote(points []point, rMin, rMax int) {
	for _, pt := range points {
		if pt.ux == 0 && pt.uy == 0 {
			continue
		}
		for _, sign := range [2]float64{1, -1} {
			for r := rMin; r <= rMax; r++ {
				cx := int(math.Floor((float64(pt.x) + sign*pt.ux*float64(r)) / a.dp))
				cy := int(math.Floor((float64(pt.y) + sign*pt.uy*float64(r)) / a.dp))
				if cx < 0 || cy < 0 || cx >= a.w || cy >= a.h {
					break
				}
				a.votes[cy*a.w+cx]++
			}
		}
	}
}

// support returns the 3x3 neighbourhood vote totals of every cell.
func (a *accumulator) support() []int {
	s := make([]int, len(a.votes))
	for y := 0; y < a.h; y++ {
		for x := 0; x < a.w; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					n += a.at(x+dx, y+dy)
				}
			}
			s[y*a.w+x] = n
		}
	}
	return s
}

// center is a candidate circle center in mask pixel coordinates.
type center struct {
	x, y  float64
	votes int
}

func (a *accumulator) centers(threshold int) []center {
	support := a.support()
	at := func(x, y int) int {
		if x < 0 || y < 0 || x >= a.w || y >= a.h {
			return 0
		}
		return support[y*a.w+x]
	}

	idx := make([]int, 0, 16)
	for y := 0; y < a.h; y++ {
		for x := 0; x < a.w; x++ {
			v := support[y*a.w+x]
			if v > threshold &&
				v > at(x-1, y) && v >= at(x+1, y) &&
				v > at(x, y-1) && v >= at(x, y+1) {
				idx = append(idx, y*a.w+x)
			}
		}
	}

	sort.SliceStable(idx, func(i, j int) bool {
		return support[idx[i]] > support[idx[j]]
	})

	out := make([]center, len(idx))
	for k, i := range idx {
		out[k] = a.refine(i%a.w, i/a.w)
		out[k].votes = support[i]
	}
	return out
}

// refine returns the vote-weighted centroid of the 3x3 cells around (x, y),
// converted to mask pixel coordinates.
func (a *accumulator) refine(x, y int) center {
	var sum, sx, sy float64
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			v := float64(a.at(x+dx, y+dy))
			sum += v
			sx += v * float64(x+dx)
			sy += v * float64(y+dy)
		}
	}
	return center{
		x:     (sx/sum + 0.5) * a.dp,
		y:     (sy/sum + 0.5) * a.dp,
		votes: a.votes[y*a.w+x],
	}
}
