// Package spline fits weighted least-squares B-splines with a fixed set of
// interior knots and evaluates them anywhere on the real line.
//
// The fit minimizes
//
//	Σ w[i]·(y[i] − s(x[i]))²
//
// over all splines s of the requested degree whose interior knots are the
// given ones and whose boundary knots are clamped at min(x) and max(x). The
// normal equations are banded (bandwidth = degree) and are solved with a band
// Cholesky factorization.
//
// A knot set must satisfy the Schoenberg–Whitney condition against the data:
// every B-spline coefficient needs a distinct abscissa inside the open support
// of its basis function. [Fit] checks this up front and reports violations as
// a [*KnotError] wrapping [ErrIllConditioned].
//
// Evaluation outside [min(x), max(x)] continues the first or last polynomial
// piece; such extrapolation is cheap but unreliable.
package spline
