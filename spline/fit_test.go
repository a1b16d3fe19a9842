package spline

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func TestFitReproducesCubic(t *testing.T) {
	x := linspace(-2, 3, 60)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 0.5*v*v*v - v*v + 2*v - 1
	}
	m, err := Fit(x, y, ones(len(x)), []float64{-1, 0, 1, 2}, 3)
	require.NoError(t, err)

	for i, v := range x {
		assert.InDelta(t, y[i], m.At(v), 1e-9, "x=%g", v)
	}
	// Cubic pieces extend the polynomial exactly.
	assert.InDelta(t, 0.5*27-9+6-1, m.At(3), 1e-9)
	assert.InDelta(t, 0.5*64-16+8-1, m.At(4), 1e-6)
}

func TestFitConstantWithoutInteriorKnots(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{3, 3, 3, 3, 3}
	m, err := Fit(x, y, ones(5), nil, 3)
	require.NoError(t, err)
	for _, v := range []float64{-1, 0, 0.5, 2.2, 4, 5} {
		assert.InDelta(t, 3.0, m.At(v), 1e-9)
	}
}

func TestFitWeightsFavorHeavyPoints(t *testing.T) {
	x := linspace(0, 10, 41)
	y := make([]float64, len(x))
	w := ones(len(x))
	y[20] = 100
	w[20] = 1e-9
	m, err := Fit(x, y, w, []float64{2.5, 5, 7.5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, m.At(5), 1e-3)
}

func TestFitLinearDegree(t *testing.T) {
	x := linspace(0, 1, 11)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = math.Abs(v - 0.5)
	}
	m, err := Fit(x, y, ones(len(x)), []float64{0.5}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Degree())
	for i, v := range x {
		assert.InDelta(t, y[i], m.At(v), 1e-12)
	}
}

func TestFitNoisyDataIsSmooth(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	x := linspace(0, 20, 400)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = math.Sin(v/4) + 0.01*rng.NormFloat64()
	}
	m, err := Fit(x, y, ones(len(x)), linspace(0, 20, 7)[1:6], 3)
	require.NoError(t, err)
	var worst float64
	for _, v := range x {
		worst = math.Max(worst, math.Abs(m.At(v)-math.Sin(v/4)))
	}
	assert.Less(t, worst, 0.02)
}

func TestSchoenbergWhitneyViolation(t *testing.T) {
	x := []float64{0, 0.1, 0.2, 0.3, 5, 10}
	// Three knots packed between two samples leave coefficients without data.
	_, err := Fit(x, ones(len(x)), ones(len(x)), []float64{1, 2, 3, 4}, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllConditioned))

	var kerr *KnotError
	require.True(t, errors.As(err, &kerr))
	assert.GreaterOrEqual(t, kerr.Coeff, 0)
	assert.Len(t, kerr.Spacings, 5)
	assert.InDelta(t, 1.0, kerr.Spacings[0], 1e-12)
	assert.Contains(t, err.Error(), "Schoenberg-Whitney")
}

func TestSchoenbergWhitneyIgnoresDuplicateAbscissae(t *testing.T) {
	x := []float64{0, 0, 2, 2, 3, 4, 4}
	_, err := Fit(x, ones(7), ones(7), []float64{2}, 3)
	assert.ErrorIs(t, err, ErrIllConditioned)

	x = []float64{0, 1, 2, 3, 4}
	_, err = Fit(x, ones(5), ones(5), []float64{2}, 3)
	assert.NoError(t, err)
}

func TestFitRejectsBadKnots(t *testing.T) {
	x := linspace(0, 10, 30)
	tests := []struct {
		name  string
		knots []float64
	}{
		{"not increasing", []float64{3, 3}},
		{"decreasing", []float64{5, 4}},
		{"at lower boundary", []float64{0, 5}},
		{"beyond upper boundary", []float64{5, 11}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Fit(x, ones(30), ones(30), tc.knots, 3)
			assert.ErrorIs(t, err, ErrIllConditioned)
		})
	}
}

func TestFitRejectsBadInput(t *testing.T) {
	x := linspace(0, 1, 10)
	tests := []struct {
		name   string
		x, y   []float64
		w      []float64
		degree int
	}{
		{"degree zero", x, ones(10), ones(10), 0},
		{"degree too high", x, ones(10), ones(10), MaxDegree + 1},
		{"length mismatch", x, ones(9), ones(10), 3},
		{"too few", x[:3], ones(3), ones(3), 3},
		{"zero weight", x, ones(10), append(ones(9), 0), 3},
		{"nan flux", x, append(ones(9), math.NaN()), ones(10), 3},
		{"unsorted", []float64{0, 2, 1, 3, 4}, ones(5), ones(5), 3},
		{"empty interval", []float64{1, 1, 1, 1}, ones(4), ones(4), 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Fit(tc.x, tc.y, tc.w, nil, tc.degree)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestModelAccessors(t *testing.T) {
	x := linspace(0, 10, 50)
	m, err := Fit(x, ones(50), ones(50), []float64{3, 6}, 3)
	require.NoError(t, err)

	lo, hi := m.Domain()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 10.0, hi)
	assert.Equal(t, []float64{3, 6}, m.Knots())
	assert.Len(t, m.Coeffs(), 2+3+1)

	knots := m.Knots()
	knots[0] = 99
	assert.Equal(t, []float64{3, 6}, m.Knots())

	out := m.Eval(nil, []float64{1, 2, 3})
	assert.Len(t, out, 3)
	for _, v := range out {
		assert.InDelta(t, 1.0, v, 1e-10)
	}
}

func TestBasisPartitionOfUnity(t *testing.T) {
	tk := fullKnots(0, 10, []float64{1, 4, 4.5, 9}, 3)
	nc := 4 + 3 + 1
	var basis [MaxDegree + 1]float64
	for _, x := range linspace(0, 10, 97) {
		span := findSpan(tk, nc, 3, x)
		basisFuns(tk, 3, span, x, basis[:4])
		var sum float64
		for _, b := range basis[:4] {
			assert.GreaterOrEqual(t, b, -1e-14)
			sum += b
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
	}
}
