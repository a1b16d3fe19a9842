package spline

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrIllConditioned indicates that the knot set cannot be identified by
	// the data (Schoenberg–Whitney violation or singular normal equations).
	ErrIllConditioned = errors.New("spline: ill-conditioned knots")
	// ErrInvalidInput indicates malformed data, weights or degree.
	ErrInvalidInput = errors.New("spline: invalid input")
)

// KnotError describes a rejected knot set.
type KnotError struct {
	// Reason is a short human readable description.
	Reason string
	// Coeff is the index of the first unidentifiable coefficient, or -1.
	Coeff int
	// Spacings are the gaps between consecutive knots including the two
	// boundary knots, i.e. diff([min(x), interior..., max(x)]).
	Spacings []float64
}

func (e *KnotError) Error() string {
	if e.Coeff >= 0 {
		return fmt.Sprintf("%v: %s (coefficient %d, %d knot spacings, min %g)",
			ErrIllConditioned, e.Reason, e.Coeff, len(e.Spacings), minSpacing(e.Spacings))
	}
	return fmt.Sprintf("%v: %s (%d knot spacings, min %g)",
		ErrIllConditioned, e.Reason, len(e.Spacings), minSpacing(e.Spacings))
}

// Unwrap returns [ErrIllConditioned].
func (e *KnotError) Unwrap() error { return ErrIllConditioned }

func newKnotError(reason string, coeff int, lo, hi float64, interior []float64) *KnotError {
	return &KnotError{Reason: reason, Coeff: coeff, Spacings: spacings(lo, hi, interior)}
}

func spacings(lo, hi float64, interior []float64) []float64 {
	out := make([]float64, 0, len(interior)+1)
	prev := lo
	for _, t := range interior {
		out = append(out, t-prev)
		prev = t
	}
	return append(out, hi-prev)
}

func minSpacing(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Min(s)
}
