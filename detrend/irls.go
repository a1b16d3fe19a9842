package detrend

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-detrend/stats/robust"
	"github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"
)

// InnerResult summarizes one run of the reweighting loop.
type InnerResult struct {
	// Iterations is the number of fits performed.
	Iterations int
	// Converged is false when the loop stopped at maxiter.
	Converged bool
	// Sigma is the median χ² of the last fit.
	Sigma float64
}

// irls runs the reweighting loop with the current knots and weights and
// leaves the residuals of the last fit in s.chi and s.chi2.
func (s *state) irls(outer int) (Curve, InnerResult, error) {
	var (
		curve    Curve
		res      InnerResult
		prev     float64
		havePrev bool
	)
	for it := 1; it <= s.cfg.maxIter; it++ {
		c, err := s.fitter.fit(s.x, s.y, s.w, s.knots)
		if err != nil {
			return nil, res, fmt.Errorf("detrend: fit (pass %d, iteration %d, %d knots): %w",
				outer, it, len(s.knots), err)
		}
		curve = c
		s.fitKnots = s.knots

		for i, xi := range s.x {
			r := (s.y[i] - c.At(xi)) / s.yerr[i]
			s.chi[i] = r
			s.chi2[i] = r * r
		}
		copy(s.scratch, s.chi2)
		sigma := robust.MedianInPlace(s.scratch)
		res = InnerResult{Iterations: it, Sigma: sigma}

		if havePrev && math.Abs(prev-sigma) < s.cfg.tol {
			res.Converged = true
			s.log.Debug("reweighting converged",
				zap.Int("pass", outer), zap.Int("iterations", it), zap.Float64("sigma", sigma))
			s.cfg.emit(Event{Kind: EventIRLSConverged, Outer: outer, Inner: it, Sigma: sigma})
			return curve, res, nil
		}
		prev, havePrev = sigma, true

		reweight(s.w, s.ivar, s.chi2, s.cfg.q)
	}

	s.log.Debug("reweighting hit iteration cap",
		zap.Int("pass", outer), zap.Int("maxiter", s.cfg.maxIter), zap.Float64("sigma", res.Sigma))
	s.cfg.emit(Event{Kind: EventIRLSMaxIter, Outer: outer, Inner: res.Iterations, Sigma: res.Sigma})
	return curve, res, nil
}

// reweight sets w = ivar·q/(χ²+q). Weights that underflow are floored at
// the smallest positive float64 so every sample keeps a positive weight.
func reweight(w, ivar, chi2 []float64, q float64) {
	robust.WeightBlock(w, chi2, q)
	vecmath.MulBlockInPlace(w, ivar)
	for i, v := range w {
		if !(v > 0) {
			w[i] = math.SmallestNonzeroFloat64
		}
	}
}
