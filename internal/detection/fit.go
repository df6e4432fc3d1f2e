package detection

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	// fitRounds is the number of least-squares refinements per candidate.
	fitRounds = 5

	// fitBand is the final distance, in pixels, within which an edge pixel
	// counts as lying on a circle.
	fitBand = 2.0

	// consumeBand is the distance within which the edge pixels of an
	// accepted circle are removed from later fits.
	consumeBand = 3.0

	// radiusSlack allows a fitted radius one pixel outside the searched
	// range. Canny places border pixels up to a pixel outside the disk.
	radiusSlack = 1.0
)

var errDegenerateFit = errors.New("degenerate circle fit")

func fitCircles(points []point, centers []center, p Params, minDist float64) []Circle {
	circles := make([]Circle, 0, 4)
	minDist2 := minDist * minDist

	for _, c := range centers {
		if tooClose(circles, c.x, c.y, minDist2) {
			continue
		}
		circle, ok := fitCircle(points, c.x, c.y, p)
		if !ok || tooClose(circles, circle.X, circle.Y, minDist2) {
			continue
		}
		circles = append(circles, circle)
		points = farFrom(points, circle, consumeBand)
	}
	return circles
}

func tooClose(circles []Circle, x, y, minDist2 float64) bool {
	for _, c := range circles {
		dx, dy := x-c.X, y-c.Y
		if dx*dx+dy*dy < minDist2 {
			return true
		}
	}
	return false
}

// fitCircle grows a circle from the candidate center (x, y).
//
// The starting radius is the mean of the densest shell of edge distances
// (see bestShell). Each round then keeps the edge pixels within a band of
// the current circle and replaces the circle with their least-squares fit;
// the band starts at the shell width and halves down to fitBand. The result
// is accepted when more than min(VoteThreshold, πr) edge pixels lie within
// fitBand of it and its radius is inside the searched range.
func fitCircle(points []point, x, y float64, p Params) (Circle, bool) {
	rMin := float64(p.RadiusMin) - radiusSlack
	rMax := float64(p.RadiusMax) + radiusSlack

	dists := make([]float64, 0, len(points))
	for _, pt := range points {
		if d := math.Hypot(float64(pt.x)-x, float64(pt.y)-y); d >= rMin && d <= rMax {
			dists = append(dists, d)
		}
	}
	if len(dists) == 0 {
		return Circle{}, false
	}
	sort.Float64s(dists)

	start, end := bestShell(dists)
	var r float64
	for _, d := range dists[start:end] {
		r += d
	}
	r /= float64(end - start)

	band := shellWidth(r)
	for round := 0; round < fitRounds; round++ {
		inliers := nearCircle(points, x, y, r, band)
		if len(inliers) < 3 {
			return Circle{}, false
		}
		fx, fy, fr, err := leastSquaresCircle(inliers)
		if err != nil {
			return Circle{}, false
		}
		x, y, r = fx, fy, fr
		band = math.Max(fitBand, band/2)
	}

	support := len(nearCircle(points, x, y, r, fitBand))
	need := min(p.VoteThreshold, int(math.Pi*r))
	if support <= need || r < rMin || r > rMax {
		return Circle{}, false
	}
	return Circle{X: x, Y: y, Radius: r, Votes: support}, true
}

// shellWidth is the width of the distance window used to pick a starting
// radius: two pixels, or a tenth of the radius for larger circles.
func shellWidth(r float64) float64 {
	return math.Max(2, r/10)
}

// bestShell scans sorted distances and returns the bounds [start, end) of
// the window [d, d+shellWidth(d)] holding the most distances. The first
// window wins ties.
func bestShell(sorted []float64) (int, int) {
	bestStart, bestEnd := 0, 0
	end := 0
	for start := range sorted {
		if end < start {
			end = start
		}
		limit := sorted[start] + shellWidth(sorted[start])
		for end < len(sorted) && sorted[end] <= limit {
			end++
		}
		if end-start > bestEnd-bestStart {
			bestStart, bestEnd = start, end
		}
	}
	return bestStart, bestEnd
}

func nearCircle(points []point, x, y, r, band float64) []point {
	out := make([]point, 0, 64)
	for _, pt := range points {
		if math.Abs(math.Hypot(float64(pt.x)-x, float64(pt.y)-y)-r) <= band {
			out = append(out, pt)
		}
	}
	return out
}

func farFrom(points []point, c Circle, band float64) []point {
	out := make([]point, 0, len(points))
	for _, pt := range points {
		if math.Abs(math.Hypot(float64(pt.x)-c.X, float64(pt.y)-c.Y)-c.Radius) > band {
			out = append(out, pt)
		}
	}
	return out
}

// leastSquaresCircle fits x² + y² + Dx + Ey + F = 0 to pts (the Kåsa fit)
// in coordinates centred on the points' mean, and returns the center and
// radius of the fitted circle.
func leastSquaresCircle(pts []point) (x, y, r float64, err error) {
	var mx, my float64
	for _, pt := range pts {
		mx += float64(pt.x)
		my += float64(pt.y)
	}
	n := float64(len(pts))
	mx /= n
	my /= n

	a := mat.NewDense(len(pts), 3, nil)
	b := mat.NewVecDense(len(pts), nil)
	for i, pt := range pts {
		u, v := float64(pt.x)-mx, float64(pt.y)-my
		a.Set(i, 0, u)
		a.Set(i, 1, v)
		a.Set(i, 2, 1)
		b.SetVec(i, -(u*u + v*v))
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return 0, 0, 0, err
	}
	d, e, f := sol.AtVec(0), sol.AtVec(1), sol.AtVec(2)
	r2 := (d*d+e*e)/4 - f
	if r2 <= 0 || math.IsNaN(r2) {
		return 0, 0, 0, errDegenerateFit
	}
	return mx - d/2, my - e/2, math.Sqrt(r2), nil
}
