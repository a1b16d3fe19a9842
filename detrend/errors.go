package detrend

import (
	"errors"

	"github.com/cwbudde/algo-detrend/spline"
)

var (
	// ErrMissingFitter indicates that no spline regression backend is configured.
	ErrMissingFitter = errors.New("detrend: spline fitter unavailable")
	// ErrInvalidConfig indicates an out-of-range option such as maxditer <= 0.
	ErrInvalidConfig = errors.New("detrend: invalid configuration")
	// ErrLengthMismatch indicates time, flux and error slices of different lengths.
	ErrLengthMismatch = errors.New("detrend: length mismatch")
	// ErrTooFewSamples indicates too few valid samples to fit a spline.
	ErrTooFewSamples = errors.New("detrend: too few valid samples")
	// ErrZeroMedian indicates that the flux cannot be normalized by its median.
	ErrZeroMedian = errors.New("detrend: median flux is zero or not finite")
	// ErrIllConditionedKnots indicates that the fitter rejected the knot set.
	// The underlying *spline.KnotError, reachable with errors.As, carries the
	// offending knot spacings.
	ErrIllConditionedKnots = spline.ErrIllConditioned
)
