package spline

import "sort"

// MaxDegree is the highest supported spline degree.
const MaxDegree = 5

// Model is a fitted B-spline. It is immutable and safe for concurrent use.
type Model struct {
	t []float64 // full knot vector, boundary knots repeated degree+1 times
	c []float64 // coefficients, len(t) - degree - 1
	k int
}

// At evaluates the spline at x. Outside the fitted domain the boundary
// polynomial pieces are extended.
func (m *Model) At(x float64) float64 {
	var basis [MaxDegree + 1]float64
	span := findSpan(m.t, len(m.c), m.k, x)
	basisFuns(m.t, m.k, span, x, basis[:m.k+1])
	var sum float64
	off := span - m.k
	for a := 0; a <= m.k; a++ {
		sum += basis[a] * m.c[off+a]
	}
	return sum
}

// Eval evaluates the spline at every xs[i] into dst and returns dst.
// If dst is nil or too short a new slice is allocated.
func (m *Model) Eval(dst, xs []float64) []float64 {
	if len(dst) < len(xs) {
		dst = make([]float64, len(xs))
	}
	dst = dst[:len(xs)]
	for i, x := range xs {
		dst[i] = m.At(x)
	}
	return dst
}

// Degree returns the polynomial degree of the pieces.
func (m *Model) Degree() int { return m.k }

// Domain returns the boundary knots, i.e. the fitted data range.
func (m *Model) Domain() (lo, hi float64) {
	return m.t[0], m.t[len(m.t)-1]
}

// Knots returns a copy of the interior knots.
func (m *Model) Knots() []float64 {
	interior := m.t[m.k+1 : len(m.t)-m.k-1]
	return append([]float64(nil), interior...)
}

// Coeffs returns a copy of the B-spline coefficients.
func (m *Model) Coeffs() []float64 {
	return append([]float64(nil), m.c...)
}

// fullKnots clamps the interior knots with degree+1 copies of lo and hi.
func fullKnots(lo, hi float64, interior []float64, k int) []float64 {
	t := make([]float64, 0, len(interior)+2*(k+1))
	for range k + 1 {
		t = append(t, lo)
	}
	t = append(t, interior...)
	for range k + 1 {
		t = append(t, hi)
	}
	return t
}

// findSpan returns the index s in [k, nc-1] with t[s] <= x < t[s+1],
// clamped to the first and last non-empty span.
func findSpan(t []float64, nc, k int, x float64) int {
	if x >= t[nc] {
		return nc - 1
	}
	if x <= t[k] {
		return k
	}
	i := sort.Search(nc-k, func(i int) bool { return t[k+1+i] > x })
	return k + i
}

// basisFuns computes the k+1 non-vanishing basis functions on span at x
// (Cox–de Boor triangle). For x outside the span it yields the span's
// polynomial continued, which is what extrapolation needs.
func basisFuns(t []float64, k, span int, x float64, n []float64) {
	var left, right [MaxDegree + 1]float64
	n[0] = 1
	for j := 1; j <= k; j++ {
		left[j] = x - t[span+1-j]
		right[j] = t[span+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := n[r] / (right[r+1] + left[j-r])
			n[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		n[j] = saved
	}
}
