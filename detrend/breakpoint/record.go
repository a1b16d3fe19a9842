package breakpoint

import (
	"math"
	"slices"
)

// Record holds the locations already treated as breakpoints during one
// top-level fit. Two locations closer than the tolerance are the same
// location. A nil *Record is empty and ignores additions.
type Record struct {
	times []float64
	tol   float64
}

// NewRecord returns an empty record matching locations within tol.
func NewRecord(tol float64) *Record {
	return &Record{tol: math.Max(tol, 0)}
}

// Contains reports whether t matches a recorded location.
func (r *Record) Contains(t float64) bool {
	if r == nil {
		return false
	}
	for _, v := range r.times {
		if math.Abs(v-t) <= r.tol {
			return true
		}
	}
	return false
}

// Add records t and reports whether it was new.
func (r *Record) Add(t float64) bool {
	if r == nil || r.Contains(t) {
		return false
	}
	r.times = append(r.times, t)
	return true
}

// Len returns the number of recorded locations.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.times)
}

// Times returns the recorded locations in insertion order.
func (r *Record) Times() []float64 {
	if r == nil {
		return nil
	}
	return slices.Clone(r.times)
}
