package breakpoint

import (
	"math"

	"github.com/cwbudde/algo-detrend/stats/robust"
)

// DefaultMargin is the minimum number of samples required on each side of a
// candidate midpoint.
const DefaultMargin = 2

// Breakpoint is an accepted discontinuity candidate.
type Breakpoint struct {
	// Index i locates the candidate between samples i and i+1.
	Index int
	// Time is the midpoint (x[i]+x[i+1])/2.
	Time float64
	// Width is the kernel half-width that found it.
	Width float64
	// Score is the kernel statistic at Time.
	Score float64
}

// Scanner searches residuals for the strongest unresolved discontinuity at
// each of several kernel half-widths.
type Scanner struct {
	// Widths are kernel half-widths in time units; each is searched
	// independently.
	Widths []float64
	// Q is the soft-clip severity.
	Q float64
	// Threshold is the minimum score a candidate must exceed.
	Threshold float64
	// Margin is the minimum sample count on each side of a candidate;
	// values below 1 select DefaultMargin.
	Margin int
	// Shape selects the kernel profile.
	Shape Shape
}

// Find returns the index i of the midpoint between x[i] and x[i+1] with the
// largest triangular-kernel score, if that score exceeds threshold. x must be
// sorted and chi holds the standardized residuals.
func Find(x, chi []float64, width, q, threshold float64) (int, bool) {
	s := Scanner{Widths: []float64{width}, Q: q, Threshold: threshold}
	found := s.Scan(x, chi, nil)
	if len(found) == 0 {
		return -1, false
	}
	return found[0].Index, true
}

// Scan searches every width and returns the newly accepted breakpoints in
// width order. Candidates whose location is already in rec are skipped; the
// accepted ones are added to rec. Two widths agreeing on one location yield a
// single breakpoint. rec may be nil.
func (s Scanner) Scan(x, chi []float64, rec *Record) []Breakpoint {
	n := min(len(x), len(chi))
	if n < 2 {
		return nil
	}
	x = x[:n]
	soft := make([]float64, n)
	robust.SoftBlock(soft, chi[:n], s.Q)

	var (
		best []Breakpoint
		buf  []float64
	)
	for _, w := range s.Widths {
		var (
			bp Breakpoint
			ok bool
		)
		bp, ok, buf = s.best(x, soft, w, rec, buf)
		if ok {
			best = append(best, bp)
		}
	}

	accepted := best[:0]
	for _, bp := range best {
		if rec != nil {
			if !rec.Add(bp.Time) {
				continue
			}
		} else if containsTime(accepted, bp.Time) {
			continue
		}
		accepted = append(accepted, bp)
	}
	return accepted
}

func (s Scanner) margin() int {
	if s.Margin < 1 {
		return DefaultMargin
	}
	return s.Margin
}

// best returns the highest-scoring unrecorded candidate for one width.
func (s Scanner) best(x, soft []float64, width float64, rec *Record, buf []float64) (Breakpoint, bool, []float64) {
	m := s.margin()
	n := len(x)
	out := Breakpoint{Index: -1, Width: width, Score: math.Inf(-1)}
	for i := m - 1; i <= n-1-m; i++ {
		t0 := 0.5 * (x[i] + x[i+1])
		if rec.Contains(t0) {
			continue
		}
		var (
			score float64
			ok    bool
		)
		score, ok, buf = scoreSoft(x, soft, t0, width, s.Shape, buf)
		if !ok || math.IsNaN(score) {
			continue
		}
		if score > out.Score {
			out.Index, out.Time, out.Score = i, t0, score
		}
	}
	if out.Index < 0 || !(out.Score > s.Threshold) {
		return Breakpoint{}, false, buf
	}
	return out, true, buf
}

func containsTime(bps []Breakpoint, t float64) bool {
	for _, bp := range bps {
		if bp.Time == t {
			return true
		}
	}
	return false
}

// Profile returns the kernel statistic at every midpoint of x. Entries whose
// kernel carries no weight are NaN. It is meant for diagnostics and plotting.
func Profile(x, chi []float64, width, q float64, shape Shape) (tmid, score []float64) {
	n := min(len(x), len(chi))
	if n < 2 {
		return nil, nil
	}
	soft := make([]float64, n)
	robust.SoftBlock(soft, chi[:n], q)

	tmid = make([]float64, n-1)
	score = make([]float64, n-1)
	var buf []float64
	for i := range n - 1 {
		t0 := 0.5 * (x[i] + x[i+1])
		var (
			v  float64
			ok bool
		)
		v, ok, buf = scoreSoft(x[:n], soft, t0, width, shape, buf)
		if !ok {
			v = math.NaN()
		}
		tmid[i], score[i] = t0, v
	}
	return tmid, score
}
