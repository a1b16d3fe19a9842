// Package residual summarizes the scatter of de-trended relative fluxes.
//
// Non-finite samples, such as the masked positions detrend.Remove copies
// through, are skipped and counted.
package residual

import (
	"math"

	"github.com/cwbudde/algo-detrend/stats/robust"
)

// madScale converts a median absolute deviation to a Gaussian σ.
const madScale = 1.482602218505602

// Stats holds scatter statistics of a relative flux series.
type Stats struct {
	Length   int // finite samples used
	Skipped  int // non-finite samples ignored
	Mean     float64
	StdDev   float64 // population standard deviation
	Variance float64
	Max      float64
	MaxPos   int
	Min      float64
	MinPos   int
	Skewness float64
	Kurtosis float64 // excess kurtosis
	// MAD is the median absolute deviation from the median, scaled to a
	// Gaussian σ.
	MAD float64
	// PointToPoint is the median absolute difference of consecutive finite
	// samples, scaled to a Gaussian σ and divided by √2: a white-noise σ
	// estimate insensitive to slow residual trends.
	PointToPoint float64
}

// PPM converts a relative flux quantity to parts per million.
func PPM(v float64) float64 { return 1e6 * v }

func emptyStats(skipped int) Stats {
	nan := math.NaN()
	return Stats{
		Skipped: skipped, Mean: nan, StdDev: nan, Variance: nan,
		Max: nan, MaxPos: -1, Min: nan, MinPos: -1,
		Skewness: nan, Kurtosis: nan, MAD: nan, PointToPoint: nan,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Calculate computes all statistics of flux. Moments use Welford's online
// update for numerical stability; positions index into flux.
func Calculate(flux []float64) Stats {
	vals := make([]float64, 0, len(flux))
	diffs := make([]float64, 0, len(flux))

	var (
		m    moments
		prev = math.NaN()

		maxVal, minVal = math.Inf(-1), math.Inf(1)
		maxPos, minPos = -1, -1
	)
	for i, x := range flux {
		if !finite(x) {
			continue
		}
		m.add(x)
		vals = append(vals, x)
		if !math.IsNaN(prev) {
			diffs = append(diffs, math.Abs(x-prev))
		}
		prev = x

		if x > maxVal {
			maxVal, maxPos = x, i
		}
		if x < minVal {
			minVal, minPos = x, i
		}
	}

	skipped := len(flux) - len(vals)
	if len(vals) == 0 {
		return emptyStats(skipped)
	}

	mean, variance, skew, kurt := m.result()
	med := robust.MedianInPlace(vals)
	for i, v := range vals {
		vals[i] = math.Abs(v - med)
	}

	p2p := math.NaN()
	if len(diffs) > 0 {
		p2p = madScale * robust.MedianInPlace(diffs) / math.Sqrt2
	}

	return Stats{
		Length:       m.n,
		Skipped:      skipped,
		Mean:         mean,
		StdDev:       math.Sqrt(variance),
		Variance:     variance,
		Max:          maxVal,
		MaxPos:       maxPos,
		Min:          minVal,
		MinPos:       minPos,
		Skewness:     skew,
		Kurtosis:     kurt,
		MAD:          madScale * robust.MedianInPlace(vals),
		PointToPoint: p2p,
	}
}

// Moments returns the mean, population variance, skewness and excess
// kurtosis of the finite values of x. All four are NaN without finite
// values; skewness and kurtosis are zero for constant input.
func Moments(x []float64) (mean, variance, skewness, kurtosis float64) {
	var m moments
	for _, v := range x {
		if finite(v) {
			m.add(v)
		}
	}
	if m.n == 0 {
		nan := math.NaN()
		return nan, nan, nan, nan
	}
	return m.result()
}

// moments is a Welford accumulator for the first four central moments.
type moments struct {
	n          int
	mean       float64
	m2, m3, m4 float64
}

func (m *moments) add(x float64) {
	m.n++
	ni := float64(m.n)
	delta := x - m.mean
	deltaN := delta / ni
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * float64(m.n-1)

	// M4 must be updated before M3, and M3 before M2.
	m.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m.m2 - 4*deltaN*m.m3
	m.m3 += term1*deltaN*(ni-2) - 3*deltaN*m.m2
	m.m2 += term1
	m.mean += deltaN
}

func (m *moments) result() (mean, variance, skewness, kurtosis float64) {
	nf := float64(m.n)
	variance = m.m2 / nf
	if variance > 0 {
		skewness = (m.m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m.m4/nf)/(variance*variance) - 3
	}
	return m.mean, variance, skewness, kurtosis
}
