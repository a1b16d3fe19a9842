// Package breakpoint scores and locates abrupt level changes in the residuals
// of a smooth fit.
//
// Residuals are first standardized (chi = (y − model)/σ) and soft-clipped
// with the Lorentzian transform of [robust.Soft]. At the midpoint t0 between
// two adjacent samples a signed kernel k compares the residuals just before
// t0 with those just after it:
//
//	score(t0) = (Σ k(x_i − t0)·soft_i)² / Σ k(x_i − t0)²
//
// The kernel is positive on [t0−w, t0), negative on [t0, t0+w] and zero
// elsewhere, so a step in the data yields a large contrast while white noise
// yields scores of order one regardless of w or the sampling density.
//
// [Scanner] evaluates every admissible midpoint at one or more half-widths,
// skips locations already held in a [Record], and reports the strongest
// candidate per width that exceeds the threshold.
package breakpoint
