package detrend

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/cwbudde/algo-detrend/detrend/breakpoint"
	"github.com/cwbudde/algo-detrend/detrend/knots"
	"github.com/cwbudde/algo-detrend/stats/robust"
	"github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"
)

// Trend is a fitted background trend together with fit diagnostics.
// It is immutable and safe for concurrent evaluation.
type Trend struct {
	curve Curve

	// Samples is the number of valid, time-unique samples fitted.
	Samples int
	// Knots are the interior knots of the returned curve.
	Knots []float64
	// Discontinuities are the breakpoints accepted, in detection order.
	// Ones found in the last allowed pass are recorded but not yet
	// reflected in Knots.
	Discontinuities []Discontinuity
	// Passes is the number of refinement passes run.
	Passes int
	// Inner holds one reweighting summary per pass.
	Inner []InnerResult
	// Resolved is true when the last pass found no new discontinuity.
	Resolved bool
}

// At evaluates the trend at time t.
func (tr *Trend) At(t float64) float64 {
	return tr.curve.At(t)
}

// Eval evaluates the trend at every ts[i] into dst and returns dst.
// If dst is too short a new slice is allocated.
func (tr *Trend) Eval(dst, ts []float64) []float64 {
	if len(dst) < len(ts) {
		dst = make([]float64, len(ts))
	}
	dst = dst[:len(ts)]
	for i, t := range ts {
		dst[i] = tr.curve.At(t)
	}
	return dst
}

// Converged reports whether every reweighting loop met the tolerance.
func (tr *Trend) Converged() bool {
	for _, in := range tr.Inner {
		if !in.Converged {
			return false
		}
	}
	return len(tr.Inner) > 0
}

// Fit estimates the trend of the series (x, y) with 1σ errors yerr.
//
// yerr may be nil, meaning unit errors. Samples whose time, flux or error is
// NaN or infinite, or whose error is not positive, are ignored; so are
// repeated times after the first occurrence. The inputs are not modified and
// need not be sorted. Fit does not normalize the fluxes; see [Remove].
func Fit(x, y, yerr []float64, opts ...Option) (*Trend, error) {
	cfg := newConfig(opts)
	if cfg.fitter == nil {
		return nil, ErrMissingFitter
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := checkLengths(x, y, yerr); err != nil {
		return nil, err
	}
	sx, sy, se := prepare(x, y, yerr)
	return fitPrepared(cfg, sx, sy, se)
}

// Remove divides the trend out of (x, y, yerr) and returns relative fluxes
// and errors in new slices.
//
// The valid samples are normalized by their median flux before fitting;
// the outputs are flux/(median·trend) and yerr/(median·trend). Invalid
// samples are copied through unchanged. With yerr nil the returned errors
// are the de-trended unit errors.
func Remove(x, y, yerr []float64, opts ...Option) (flux, ferr []float64, err error) {
	flux = slices.Clone(y)
	if yerr != nil {
		ferr = slices.Clone(yerr)
	} else {
		ferr = make([]float64, len(y))
		for i := range ferr {
			ferr[i] = 1
		}
	}
	if err := RemoveInPlace(x, flux, ferr, opts...); err != nil {
		return nil, nil, err
	}
	return flux, ferr, nil
}

// RemoveInPlace is [Remove] writing into y and yerr. yerr may be nil.
// On error y and yerr are left untouched.
func RemoveInPlace(x, y, yerr []float64, opts ...Option) error {
	if err := checkLengths(x, y, yerr); err != nil {
		return err
	}
	mask := validMask(x, y, yerr)
	if len(mask) == 0 {
		return fmt.Errorf("%w: no valid samples", ErrTooFewSamples)
	}

	x0 := make([]float64, len(mask))
	y0 := make([]float64, len(mask))
	e0 := make([]float64, len(mask))
	for j, i := range mask {
		x0[j], y0[j], e0[j] = x[i], y[i], errAt(yerr, i)
	}
	factor := robust.Median(y0)
	if factor == 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: %g", ErrZeroMedian, factor)
	}
	vecmath.ScaleBlockInPlace(y0, 1/factor)
	vecmath.ScaleBlockInPlace(e0, 1/math.Abs(factor))

	trend, err := Fit(x0, y0, e0, opts...)
	if err != nil {
		return err
	}

	for _, i := range mask {
		d := factor * trend.At(x[i])
		y[i] /= d
		if yerr != nil {
			yerr[i] /= math.Abs(d)
		}
	}
	return nil
}

// DiscontinuityProfile fits the trend and returns the kernel statistic of
// its residuals at every midpoint between consecutive valid samples, using
// the first configured kernel width. Undefined scores are NaN.
//
// The fit runs one refinement pass fewer than configured (at least one), so
// the profile shows the residuals before the last repair. The profile uses
// the quadratic kernel unless WithKernelShape selects another; the fit
// itself scans with the configured shape either way.
func DiscontinuityProfile(x, y, yerr []float64, opts ...Option) (tmid, score []float64, err error) {
	cfg := newConfig(opts)
	if cfg.fitter == nil {
		return nil, nil, ErrMissingFitter
	}
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	if err := checkLengths(x, y, yerr); err != nil {
		return nil, nil, err
	}
	shape := breakpoint.ShapeQuadratic
	if cfg.shapeSet {
		shape = cfg.shape
	}
	cfg.maxDIter = max(cfg.maxDIter-1, 1)

	sx, sy, se := prepare(x, y, yerr)
	trend, err := fitPrepared(cfg, sx, sy, se)
	if err != nil {
		return nil, nil, err
	}
	chi := make([]float64, len(sx))
	for i := range sx {
		chi[i] = (sy[i] - trend.At(sx[i])) / se[i]
	}
	tmid, score = breakpoint.Profile(sx, chi, cfg.kernelWidths()[0], cfg.q, shape)
	return tmid, score, nil
}

// state is the iteration state of one top-level fit.
type state struct {
	cfg     config
	log     *zap.Logger
	fitter  *anchoredFitter
	scanner breakpoint.Scanner
	record  *breakpoint.Record

	x, y, yerr []float64
	ivar, w    []float64
	chi, chi2  []float64
	scratch    []float64
	lo, hi     float64
	eps        float64

	knots    []float64
	fitKnots []float64

	passes   int
	inner    []InnerResult
	found    []Discontinuity
	resolved bool
}

func fitPrepared(cfg config, x, y, yerr []float64) (*Trend, error) {
	n := len(x)
	if n < cfg.degree+1 {
		return nil, fmt.Errorf("%w: need at least %d, got %d", ErrTooFewSamples, cfg.degree+1, n)
	}
	lo, hi := x[0], x[n-1]
	eps := knots.Epsilon(lo, hi)
	log := cfg.log()

	k := knots.Initial(lo, hi, cfg.dt)
	if cfg.fillGaps {
		var filled int
		k, filled = knots.FillGaps(k, x, cfg.fillTimes, cfg.gapKnots())
		if filled > 0 {
			log.Debug("filled time gaps", zap.Int("gaps", filled), zap.Float64("min_gap", cfg.fillTimes))
			cfg.emit(Event{Kind: EventGapsFilled, Count: filled})
		}
	}
	k = knots.Sanitize(k, lo, hi, eps)
	k = knots.Limit(k, lo, hi, n, cfg.degree)

	// ivar = 1/σ² and the weights start there.
	inv := make([]float64, n)
	for i, e := range yerr {
		inv[i] = 1 / e
	}
	ivar := make([]float64, n)
	vecmath.MulBlock(ivar, inv, inv)

	s := &state{
		cfg: cfg,
		log: log,
		fitter: &anchoredFitter{
			fitter:  cfg.fitter,
			degree:  cfg.degree,
			anchors: cfg.anchors,
			level:   robust.Median(y),
		},
		scanner: breakpoint.Scanner{
			Widths:    cfg.kernelWidths(),
			Q:         cfg.q,
			Threshold: cfg.threshold,
			Margin:    cfg.margin,
			Shape:     cfg.shape,
		},
		record:  breakpoint.NewRecord(eps),
		x:       x,
		y:       y,
		yerr:    yerr,
		ivar:    ivar,
		w:       slices.Clone(ivar),
		chi:     make([]float64, n),
		chi2:    make([]float64, n),
		scratch: make([]float64, n),
		lo:      lo,
		hi:      hi,
		eps:     eps,
		knots:   k,
	}

	curve, err := s.refine()
	if err != nil {
		return nil, err
	}
	return &Trend{
		curve:           curve,
		Samples:         n,
		Knots:           slices.Clone(s.fitKnots),
		Discontinuities: s.found,
		Passes:          s.passes,
		Inner:           s.inner,
		Resolved:        s.resolved,
	}, nil
}

func checkLengths(x, y, yerr []float64) error {
	if len(y) != len(x) || (yerr != nil && len(yerr) != len(x)) {
		return fmt.Errorf("%w: x=%d y=%d yerr=%d", ErrLengthMismatch, len(x), len(y), len(yerr))
	}
	return nil
}

func errAt(yerr []float64, i int) float64 {
	if yerr == nil {
		return 1
	}
	return yerr[i]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validMask returns the indices of samples with finite time, flux and a
// finite positive error.
func validMask(x, y, yerr []float64) []int {
	mask := make([]int, 0, len(x))
	for i := range x {
		e := errAt(yerr, i)
		if finite(x[i]) && finite(y[i]) && finite(e) && e > 0 {
			mask = append(mask, i)
		}
	}
	return mask
}

// prepare masks invalid samples, sorts by time and drops repeated times,
// keeping the first occurrence in input order.
func prepare(x, y, yerr []float64) (sx, sy, se []float64) {
	mask := validMask(x, y, yerr)
	sort.SliceStable(mask, func(a, b int) bool { return x[mask[a]] < x[mask[b]] })

	sx = make([]float64, 0, len(mask))
	sy = make([]float64, 0, len(mask))
	se = make([]float64, 0, len(mask))
	for _, i := range mask {
		if len(sx) > 0 && x[i] <= sx[len(sx)-1] {
			continue
		}
		sx = append(sx, x[i])
		sy = append(sy, y[i])
		se = append(se, errAt(yerr, i))
	}
	return sx, sy, se
}
