package spline

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Fit computes the weighted least-squares spline of the given degree through
// (x, y) with weights w and the given interior knots.
//
// x must be nondecreasing and span a non-empty interval, w must be positive
// and interior must be strictly increasing and lie strictly inside
// (x[0], x[len(x)-1]). A knot set that the data cannot identify is rejected
// with a [*KnotError].
func Fit(x, y, w, interior []float64, degree int) (*Model, error) {
	if err := validate(x, y, w, degree); err != nil {
		return nil, err
	}
	k := degree
	lo, hi := x[0], x[len(x)-1]
	if err := checkInterior(lo, hi, interior); err != nil {
		return nil, err
	}

	t := fullKnots(lo, hi, interior, k)
	nc := len(interior) + k + 1
	if coeff := schoenbergWhitney(x, t, nc, k); coeff >= 0 {
		return nil, newKnotError("Schoenberg-Whitney condition violated", coeff, lo, hi, interior)
	}

	a := mat.NewSymBandDense(nc, k, nil)
	rhs := make([]float64, nc)
	var basis [MaxDegree + 1]float64
	for i, xi := range x {
		span := findSpan(t, nc, k, xi)
		basisFuns(t, k, span, xi, basis[:k+1])
		off := span - k
		wi := w[i]
		for r := 0; r <= k; r++ {
			wb := wi * basis[r]
			rhs[off+r] += wb * y[i]
			for s := r; s <= k; s++ {
				a.SetSymBand(off+r, off+s, a.At(off+r, off+s)+wb*basis[s])
			}
		}
	}

	var chol mat.BandCholesky
	if ok := chol.Factorize(a); !ok {
		return nil, newKnotError("normal equations not positive definite", -1, lo, hi, interior)
	}
	var c mat.VecDense
	if err := chol.SolveVecTo(&c, mat.NewVecDense(nc, rhs)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("spline: solve normal equations: %w", err)
		}
	}

	coeffs := make([]float64, nc)
	for i := range coeffs {
		coeffs[i] = c.AtVec(i)
		if math.IsNaN(coeffs[i]) || math.IsInf(coeffs[i], 0) {
			return nil, newKnotError("non-finite coefficient", i, lo, hi, interior)
		}
	}
	return &Model{t: t, c: coeffs, k: k}, nil
}

func validate(x, y, w []float64, degree int) error {
	if degree < 1 || degree > MaxDegree {
		return fmt.Errorf("%w: degree must be in [1,%d]: %d", ErrInvalidInput, MaxDegree, degree)
	}
	n := len(x)
	if len(y) != n || len(w) != n {
		return fmt.Errorf("%w: length mismatch x=%d y=%d w=%d", ErrInvalidInput, n, len(y), len(w))
	}
	if n < degree+1 {
		return fmt.Errorf("%w: need at least %d points, got %d", ErrInvalidInput, degree+1, n)
	}
	for i := range n {
		if !finite(x[i]) || !finite(y[i]) {
			return fmt.Errorf("%w: non-finite sample at %d", ErrInvalidInput, i)
		}
		if !(w[i] > 0) || math.IsInf(w[i], 0) {
			return fmt.Errorf("%w: weight at %d must be positive and finite: %g", ErrInvalidInput, i, w[i])
		}
		if i > 0 && x[i] < x[i-1] {
			return fmt.Errorf("%w: x must be nondecreasing (index %d)", ErrInvalidInput, i)
		}
	}
	if !(x[n-1] > x[0]) {
		return fmt.Errorf("%w: x spans an empty interval", ErrInvalidInput)
	}
	return nil
}

func checkInterior(lo, hi float64, interior []float64) error {
	prev := lo
	for i, t := range interior {
		if !(t > prev) {
			return newKnotError(fmt.Sprintf("interior knot %d not strictly increasing", i), -1, lo, hi, interior)
		}
		prev = t
	}
	if len(interior) > 0 && !(interior[len(interior)-1] < hi) {
		return newKnotError("interior knot outside data range", -1, lo, hi, interior)
	}
	return nil
}

// schoenbergWhitney returns the index of the first coefficient that has no
// distinct abscissa inside the support of its basis function, or -1 when the
// condition holds. The first and last basis functions are nonzero at the
// boundary itself, so their supports are closed on that side.
func schoenbergWhitney(x, t []float64, nc, k int) int {
	l := 0
	used := math.Inf(-1)
	for j := range nc {
		lo, hi := t[j], t[j+k+1]
		for l < len(x) && (x[l] <= used || x[l] < lo || (x[l] == lo && j > 0)) {
			l++
		}
		if l == len(x) {
			return j
		}
		if x[l] > hi || (x[l] == hi && j < nc-1) {
			return j
		}
		used = x[l]
		l++
	}
	return -1
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
