// Package median provides a sliding-window median de-trender for irregularly
// sampled series. It is a quick baseline next to the spline fit in package
// detrend and carries no robustness or discontinuity handling of its own.
package median

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-detrend/stats/robust"
)

var (
	// ErrLengthMismatch is returned when x and y differ in length.
	ErrLengthMismatch = errors.New("median: length mismatch")
	// ErrInvalidWindow is returned for a non-positive or non-finite window.
	ErrInvalidWindow = errors.New("median: invalid window")
)

// Windowed returns, for every sample i, the median of all y[j] whose time
// lies within dt/2 of x[i]. NaN fluxes are ignored; a sample with NaN time,
// or whose window holds no finite flux, gets NaN. x need not be sorted.
func Windowed(x, y []float64, dt float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: x=%d y=%d", ErrLengthMismatch, len(x), len(y))
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidWindow, dt)
	}

	order := make([]int, 0, len(x))
	for i, t := range x {
		if !math.IsNaN(t) {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	out := make([]float64, len(x))
	for i := range out {
		out[i] = math.NaN()
	}

	half := dt / 2
	buf := make([]float64, 0, 64)
	lo, hi := 0, 0
	for _, i := range order {
		t := x[i]
		for lo < len(order) && x[order[lo]] < t-half {
			lo++
		}
		if hi < lo {
			hi = lo
		}
		for hi < len(order) && x[order[hi]] <= t+half {
			hi++
		}
		buf = buf[:0]
		for _, j := range order[lo:hi] {
			if !math.IsNaN(y[j]) {
				buf = append(buf, y[j])
			}
		}
		if len(buf) > 0 {
			out[i] = robust.MedianInPlace(buf)
		}
	}
	return out, nil
}

// Remove divides y by its windowed median and returns the relative fluxes.
// Samples without a finite median come back as NaN.
func Remove(x, y []float64, dt float64) ([]float64, error) {
	m, err := Windowed(x, y, dt)
	if err != nil {
		return nil, err
	}
	for i := range m {
		m[i] = y[i] / m[i]
	}
	return m, nil
}
