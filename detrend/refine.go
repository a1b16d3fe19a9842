package detrend

import (
	"github.com/cwbudde/algo-detrend/detrend/knots"
	"go.uber.org/zap"
)

// Discontinuity is a breakpoint accepted during a fit.
type Discontinuity struct {
	// Time is the midpoint between the samples on either side.
	Time float64
	// Before and After are the times of those samples.
	Before, After float64
	// Score is the kernel statistic and Width the half-width that found it.
	Score float64
	Width float64
	// Pass is the 1-based refinement pass that found it.
	Pass int
}

// refine alternates reweighting and discontinuity repair until no new
// breakpoint turns up or maxditer passes have run.
func (s *state) refine() (Curve, error) {
	var curve Curve
	for outer := 1; outer <= s.cfg.maxDIter; outer++ {
		c, inner, err := s.irls(outer)
		if err != nil {
			return nil, err
		}
		curve = c
		s.passes = outer
		s.inner = append(s.inner, inner)

		found := s.scanner.Scan(s.x, s.chi, s.record)
		if len(found) == 0 {
			s.resolved = true
			return curve, nil
		}

		fill := knots.BreakpointFill(s.cfg.nfill)
		for _, bp := range found {
			t1, t2 := s.x[bp.Index], s.x[bp.Index+1]
			s.found = append(s.found, Discontinuity{
				Time: bp.Time, Before: t1, After: t2,
				Score: bp.Score, Width: bp.Width, Pass: outer,
			})
			s.log.Debug("discontinuity found",
				zap.Int("pass", outer), zap.Float64("time", bp.Time),
				zap.Float64("score", bp.Score), zap.Float64("width", bp.Width))
			s.cfg.emit(Event{Kind: EventBreakpoint, Outer: outer, Time: bp.Time, Score: bp.Score})
			s.knots = knots.Densify(s.knots, t1, t2, fill)
		}
		s.knots = knots.Sanitize(s.knots, s.lo, s.hi, s.eps)
	}

	s.log.Debug("refinement hit pass cap",
		zap.Int("maxditer", s.cfg.maxDIter), zap.Int("breakpoints", len(s.found)))
	s.cfg.emit(Event{Kind: EventMaxDIter, Outer: s.cfg.maxDIter})
	return curve, nil
}
