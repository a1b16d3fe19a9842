// Package knots builds and edits the ordered interior knot sets used by the
// trend spline.
//
// Every operation returns a new, sorted, strictly increasing slice; inputs
// are never modified.
package knots

import (
	"math"
	"slices"
)

// MinBreakpointFill is the smallest number of knots inserted around a
// detected discontinuity. Four knots let a cubic spline bend sharply there.
const MinBreakpointFill = 4

// Linspace returns n evenly spaced values covering [lo, hi].
// n == 1 yields {lo}; n <= 0 yields nil.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

// Initial returns the interior of a uniform grid of int((tmax-tmin)/dt)+2
// points over [tmin, tmax], so the spacing never exceeds dt. Ranges shorter
// than dt give no knots.
func Initial(tmin, tmax, dt float64) []float64 {
	if !(dt > 0) || !(tmax > tmin) || math.IsInf(tmax-tmin, 0) {
		return nil
	}
	n := int((tmax-tmin)/dt) + 2
	grid := Linspace(tmin, tmax, n)
	return grid[1 : n-1]
}

// Densify removes all knots inside [t1, t2] and inserts n evenly spaced knots
// spanning that interval, endpoints included.
func Densify(knots []float64, t1, t2 float64, n int) []float64 {
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	out := make([]float64, 0, len(knots)+n)
	for _, k := range knots {
		if k < t1 || k > t2 {
			out = append(out, k)
		}
	}
	out = append(out, Linspace(t1, t2, n)...)
	slices.Sort(out)
	return slices.Compact(out)
}

// FillGaps densifies knots across every pair of adjacent samples in x whose
// spacing exceeds minGap, using n knots per gap. x must be sorted. It returns
// the new knots and the number of gaps filled.
func FillGaps(knots, x []float64, minGap float64, n int) ([]float64, int) {
	out := slices.Clone(knots)
	filled := 0
	for i := 1; i < len(x); i++ {
		if x[i]-x[i-1] > minGap {
			out = Densify(out, x[i-1], x[i], n)
			filled++
		}
	}
	return out, filled
}

// BreakpointFill returns the number of knots to insert at a discontinuity
// for a configured fill count.
func BreakpointFill(nfill int) int {
	return max(nfill, MinBreakpointFill)
}

// Epsilon returns the minimum knot separation used by [Sanitize] for data
// spanning [lo, hi]: a small multiple of the float64 resolution at that scale.
func Epsilon(lo, hi float64) float64 {
	scale := math.Max(1, math.Max(math.Abs(lo), math.Abs(hi)))
	return 64 * scale * 0x1p-52
}

// Sanitize returns the sorted knots that lie strictly inside (lo, hi), at
// least eps away from both boundaries and from their predecessor. Knots
// closer than eps make the spline fit ill-posed.
func Sanitize(knots []float64, lo, hi, eps float64) []float64 {
	sorted := slices.Clone(knots)
	slices.Sort(sorted)
	out := sorted[:0]
	prev := lo
	for _, k := range sorted {
		if math.IsNaN(k) || k-prev < eps || hi-k < eps {
			continue
		}
		out = append(out, k)
		prev = k
	}
	return out
}

// Limit caps the knot count at what distinct abscissae can identify for a
// spline of the given degree. When knots exceeds the cap it is replaced by a
// uniform grid over (lo, hi) with the maximum admissible count.
func Limit(knots []float64, lo, hi float64, distinct, degree int) []float64 {
	maxKnots := max(distinct-degree-1, 0)
	if len(knots) <= maxKnots {
		return knots
	}
	grid := Linspace(lo, hi, maxKnots+2)
	return grid[1 : maxKnots+1]
}

// Distinct counts the distinct values of sorted x.
func Distinct(x []float64) int {
	if len(x) == 0 {
		return 0
	}
	n := 1
	for i := 1; i < len(x); i++ {
		if x[i] != x[i-1] {
			n++
		}
	}
	return n
}

// StrictlyIncreasing reports whether consecutive knots differ by more than eps.
func StrictlyIncreasing(knots []float64, eps float64) bool {
	for i := 1; i < len(knots); i++ {
		if !(knots[i]-knots[i-1] > eps) {
			return false
		}
	}
	return true
}
