package detrend

import "github.com/cwbudde/algo-detrend/spline"

// anchorWeight is the regression weight of a synthetic anchor point. Real
// samples carry inverse-variance weights, which for normalized fluxes are
// many orders of magnitude larger.
const anchorWeight = 1.0

// Curve is an evaluable trend model. Evaluating outside the fitted time range
// extrapolates and is unreliable.
type Curve interface {
	At(t float64) float64
}

// Fitter fits a weighted least-squares spline with fixed interior knots.
//
// x is nondecreasing, w is positive and knots are strictly increasing inside
// (x[0], x[len(x)-1]). Implementations must be safe for concurrent use, must
// not retain the slices, and must report unidentifiable knot sets as errors
// wrapping [ErrIllConditionedKnots].
type Fitter interface {
	Fit(x, y, w, knots []float64, degree int) (Curve, error)
}

// FitterFunc adapts a function to [Fitter].
type FitterFunc func(x, y, w, knots []float64, degree int) (Curve, error)

// Fit calls f.
func (f FitterFunc) Fit(x, y, w, knots []float64, degree int) (Curve, error) {
	return f(x, y, w, knots, degree)
}

// SplineFitter is the default [Fitter], backed by [spline.Fit].
var SplineFitter Fitter = FitterFunc(func(x, y, w, knots []float64, degree int) (Curve, error) {
	m, err := spline.Fit(x, y, w, knots, degree)
	if err != nil {
		return nil, err
	}
	return m, nil
})

// anchoredFitter augments the regression input with one anchor per knot and
// one at each end of the data, all at the median flux level. Anchors keep the
// fit identifiable where real samples are sparse.
type anchoredFitter struct {
	fitter  Fitter
	degree  int
	anchors bool
	level   float64

	x, y, w []float64
}

func (a *anchoredFitter) fit(x, y, w, knots []float64) (Curve, error) {
	if !a.anchors || len(x) == 0 {
		return a.fitter.Fit(x, y, w, knots, a.degree)
	}

	n := len(x) + len(knots) + 2
	a.x, a.y, a.w = a.x[:0], a.y[:0], a.w[:0]
	if cap(a.x) < n {
		a.x = make([]float64, 0, n)
		a.y = make([]float64, 0, n)
		a.w = make([]float64, 0, n)
	}

	// Anchor abscissae are [x0, knots..., xn], already sorted.
	anchorAt := func(j int) float64 {
		switch {
		case j == 0:
			return x[0]
		case j <= len(knots):
			return knots[j-1]
		default:
			return x[len(x)-1]
		}
	}
	na := len(knots) + 2
	i, j := 0, 0
	for i < len(x) || j < na {
		if j == na || (i < len(x) && x[i] <= anchorAt(j)) {
			a.x = append(a.x, x[i])
			a.y = append(a.y, y[i])
			a.w = append(a.w, w[i])
			i++
			continue
		}
		a.x = append(a.x, anchorAt(j))
		a.y = append(a.y, a.level)
		a.w = append(a.w, anchorWeight)
		j++
	}
	return a.fitter.Fit(a.x, a.y, a.w, knots, a.degree)
}
