// Package synth generates deterministic synthetic light curves for the
// trendinfo command, examples and tests.
package synth

import (
	"math"
	"math/rand"
)

// LightCurve is a synthetic series of times, fluxes and 1σ flux errors.
type LightCurve struct {
	X, Y, Yerr []float64
}

// Len returns the number of samples.
func (lc LightCurve) Len() int { return len(lc.X) }

// Times returns n evenly spaced times starting at t0.
func Times(n int, t0, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = t0 + step*float64(i)
	}
	return out
}

// Polynomial evaluates c[0] + c[1]·t + c[2]·t² + ... at every x.
func Polynomial(x []float64, c ...float64) []float64 {
	out := make([]float64, len(x))
	for i, t := range x {
		v := 0.0
		for j := len(c) - 1; j >= 0; j-- {
			v = v*t + c[j]
		}
		out[i] = v
	}
	return out
}

// AddStep adds height to every y[i] with x[i] >= t0.
func AddStep(y, x []float64, t0, height float64) {
	for i, t := range x {
		if t >= t0 {
			y[i] += height
		}
	}
}

// AddTransit scales y by (1-depth) inside a box of the given duration
// centred on t0.
func AddTransit(y, x []float64, t0, duration, depth float64) {
	for i, t := range x {
		if math.Abs(t-t0) <= duration/2 {
			y[i] *= 1 - depth
		}
	}
}

// GaussianNoise returns n normal deviates with standard deviation sigma from
// a fixed seed.
func GaussianNoise(seed int64, sigma float64, n int) []float64 {
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = sigma * rng.NormFloat64()
	}
	return out
}

// Noisy builds a light curve from clean fluxes by adding Gaussian noise of
// width sigma and setting every error to sigma.
func Noisy(x, clean []float64, sigma float64, seed int64) LightCurve {
	noise := GaussianNoise(seed, sigma, len(x))
	y := make([]float64, len(x))
	for i := range y {
		y[i] = clean[i] + noise[i]
	}
	return LightCurve{X: x, Y: y, Yerr: DC(sigma, len(x))}
}

// Cut returns a copy of lc without the samples whose time lies in [t1, t2].
func Cut(lc LightCurve, t1, t2 float64) LightCurve {
	var out LightCurve
	for i, t := range lc.X {
		if t >= t1 && t <= t2 {
			continue
		}
		out.X = append(out.X, t)
		out.Y = append(out.Y, lc.Y[i])
		out.Yerr = append(out.Yerr, lc.Yerr[i])
	}
	return out
}

// DC generates a constant-valued series.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}
