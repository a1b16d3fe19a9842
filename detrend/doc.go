// Package detrend fits and removes slow background trends from irregularly
// sampled light curves while preserving short features such as transits and
// repairing abrupt instrumental jumps.
//
// The trend is a cubic spline fitted by iteratively reweighted least squares
// (IRLS). Each reweighting pass down-weights samples with large standardized
// residuals using the Lorentzian factor q/(q+χ²), so transits and flares
// barely pull on the fit. Around the IRLS loop sits a refinement loop: after
// the weights settle, the residuals are scanned for discontinuities (see
// package breakpoint) and extra knots are packed around each one found, so the
// spline can follow a step it could not represent before.
//
// Common workflows:
//   - Remove(x, y, yerr, opts...) for relative, de-trended fluxes
//   - Fit(x, y, yerr, opts...) for the trend itself and fit diagnostics
//   - DiscontinuityProfile(x, y, yerr, opts...) to inspect breakpoint scores
//
// Default parameters:
//
//	option          default    preset Kepler
//	WithQ           12         4
//	WithDt          4          4
//	WithTol         1.25e-3    1.25e-3
//	WithMaxIter     15         15
//	WithMaxDIter    4          4
//	WithNFill       4          4
//	WithFillTimes   off        10^-1.25
//	kernel width    dt         dt/2
//	WithThreshold   25         25
//
// Non-convergence of either loop is not an error: the most recent fit is
// returned and the [Trend] diagnostics say which loop hit its cap.
//
// All state lives in a single call, so independent series can be fitted from
// different goroutines.
package detrend
