package breakpoint

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-detrend/stats/robust"
	"gonum.org/v1/gonum/floats"
)

// Shape selects the kernel profile.
type Shape int

const (
	// ShapeTriangular is a tent: |k| falls linearly from 1 at t0 to 0 at t0±w.
	ShapeTriangular Shape = iota
	// ShapeQuadratic squares the tent, concentrating weight near t0.
	ShapeQuadratic
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeTriangular:
		return "triangular"
	case ShapeQuadratic:
		return "quadratic"
	default:
		return "unknown"
	}
}

// Weight returns the kernel value at normalized offset u = (x−t0)/w.
func (s Shape) Weight(u float64) float64 {
	if u < -1 || u > 1 || math.IsNaN(u) {
		return 0
	}
	var k float64
	if u < 0 {
		k = 1 + u
	} else {
		k = 1 - u
	}
	if s == ShapeQuadratic {
		k *= k
	}
	if u >= 0 {
		return -k
	}
	return k
}

// Score returns the triangular-kernel discontinuity statistic of the
// standardized residuals chi at t0 with half-width width and soft-clip
// severity q. x must be sorted. ok is false when no sample carries kernel
// weight, in which case the statistic is undefined.
func Score(x, chi []float64, t0, width, q float64) (score float64, ok bool) {
	soft := make([]float64, len(chi))
	robust.SoftBlock(soft, chi, q)
	score, ok, _ = scoreSoft(x, soft, t0, width, ShapeTriangular, nil)
	return score, ok
}

// scoreSoft evaluates the statistic on precomputed soft residuals. buf is
// scratch space for kernel values and is returned for reuse.
func scoreSoft(x, soft []float64, t0, width float64, shape Shape, buf []float64) (float64, bool, []float64) {
	if !(width > 0) || len(x) == 0 {
		return 0, false, buf
	}
	lo := sort.SearchFloat64s(x, t0-width)
	hi := sort.Search(len(x), func(i int) bool { return x[i] > t0+width })
	if hi <= lo {
		return 0, false, buf
	}

	buf = buf[:0]
	for _, xi := range x[lo:hi] {
		buf = append(buf, shape.Weight((xi-t0)/width))
	}
	energy := floats.Dot(buf, buf)
	if energy == 0 {
		return 0, false, buf
	}
	num := floats.Dot(buf, soft[lo:hi])
	return num * num / energy, true, buf
}
