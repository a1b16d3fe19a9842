// Package robust provides outlier-resistant statistics shared by the
// de-trending loops: the median and the Lorentzian soft-clip family used for
// both reweighting and discontinuity scoring.
package robust

import (
	"math"
	"slices"
)

// Median returns the median of x, averaging the two middle values for an
// even length. NaN values are ignored. Returns NaN when x holds no non-NaN
// value. x is not modified.
func Median(x []float64) float64 {
	buf := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			buf = append(buf, v)
		}
	}
	return medianInPlace(buf)
}

// MedianInPlace is like [Median] but sorts x in place and does not skip NaN.
// It avoids an allocation in hot loops where the caller owns a scratch slice.
func MedianInPlace(x []float64) float64 {
	return medianInPlace(x)
}

func medianInPlace(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	slices.Sort(x)
	if n%2 == 1 {
		return x[n/2]
	}
	return 0.5 * (x[n/2-1] + x[n/2])
}

// Soft returns the Lorentzian soft-clipped residual sqrt(q/(q+chi²))·chi.
// The result is bounded by ±sqrt(q); smaller q clips harder.
func Soft(chi, q float64) float64 {
	sq := math.Sqrt(q)
	r := chi / sq
	if math.IsInf(r, 0) {
		return math.Copysign(sq, chi)
	}
	// Hypot keeps r² from overflowing for huge residuals.
	return sq * (r / math.Hypot(1, r))
}

// SoftBlock writes Soft(chi[i], q) into dst.
// dst and chi may alias. Only the common length is processed.
func SoftBlock(dst, chi []float64, q float64) {
	n := min(len(dst), len(chi))
	for i := range n {
		dst[i] = Soft(chi[i], q)
	}
}

// Weight returns the Lorentzian reweighting factor q/(chi2+q) in (0, 1].
// chi2 is the squared standardized residual.
func Weight(chi2, q float64) float64 {
	return q / (chi2 + q)
}

// WeightBlock writes Weight(chi2[i], q) into dst.
func WeightBlock(dst, chi2 []float64, q float64) {
	n := min(len(dst), len(chi2))
	for i := range n {
		dst[i] = Weight(chi2[i], q)
	}
}
