package detrend

// EventKind identifies a notable step of a fit.
type EventKind int

const (
	// EventGapsFilled reports knots added across large time gaps.
	EventGapsFilled EventKind = iota
	// EventIRLSConverged reports a reweighting loop that met the tolerance.
	EventIRLSConverged
	// EventIRLSMaxIter reports a reweighting loop that hit maxiter.
	EventIRLSMaxIter
	// EventBreakpoint reports an accepted discontinuity.
	EventBreakpoint
	// EventMaxDIter reports a refinement loop that hit maxditer while still
	// finding discontinuities.
	EventMaxDIter
)

// String returns a short name for the kind.
func (k EventKind) String() string {
	switch k {
	case EventGapsFilled:
		return "gaps-filled"
	case EventIRLSConverged:
		return "irls-converged"
	case EventIRLSMaxIter:
		return "irls-max-iter"
	case EventBreakpoint:
		return "breakpoint"
	case EventMaxDIter:
		return "max-diter"
	default:
		return "unknown"
	}
}

// Event is passed to the observer installed with [WithObserver].
// Fields that do not apply to a kind are zero.
type Event struct {
	Kind EventKind
	// Outer is the 1-based refinement iteration.
	Outer int
	// Inner is the 1-based reweighting iteration.
	Inner int
	// Sigma is the median squared standardized residual.
	Sigma float64
	// Time and Score describe a breakpoint.
	Time  float64
	Score float64
	// Count is the number of gaps filled.
	Count int
}
