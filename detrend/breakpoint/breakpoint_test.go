package breakpoint

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepResiduals returns n samples spaced by dt and residuals with Gaussian
// noise of the given sigma plus a jump of size step after sample at. The
// residuals sit at −step/2 before the jump and +step/2 after it, the way a
// smooth fit through the step leaves them.
func stepResiduals(n int, dt, sigma, step float64, at int, seed int64) (x, chi []float64) {
	rng := rand.New(rand.NewSource(seed))
	x = make([]float64, n)
	chi = make([]float64, n)
	for i := range n {
		x[i] = float64(i) * dt
		chi[i] = sigma*rng.NormFloat64() - 0.5*step
		if i > at {
			chi[i] += step
		}
	}
	return x, chi
}

func TestShapeWeight(t *testing.T) {
	tests := []struct {
		shape Shape
		u     float64
		want  float64
	}{
		{ShapeTriangular, -1.5, 0},
		{ShapeTriangular, -1, 0},
		{ShapeTriangular, -0.5, 0.5},
		{ShapeTriangular, -1e-12, 1 - 1e-12},
		{ShapeTriangular, 0, -1},
		{ShapeTriangular, 0.25, -0.75},
		{ShapeTriangular, 1, 0},
		{ShapeTriangular, 2, 0},
		{ShapeQuadratic, -0.5, 0.25},
		{ShapeQuadratic, 0.5, -0.25},
		{ShapeQuadratic, 0, -1},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, tc.shape.Weight(tc.u), 1e-15, "%v u=%g", tc.shape, tc.u)
	}
	assert.Zero(t, ShapeTriangular.Weight(math.NaN()))
	assert.Equal(t, "triangular", ShapeTriangular.String())
	assert.Equal(t, "quadratic", ShapeQuadratic.String())
	assert.Equal(t, "unknown", Shape(9).String())
}

func TestScoreContrast(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	chi := []float64{1, 1, 1, -1, -1, -1}
	s, ok := Score(x, chi, 2.5, 3, 1e12)
	require.True(t, ok)

	// With a huge q the soft residual equals chi, so the statistic reduces
	// to (Σ|k|)²/Σk² over the six samples.
	var num, energy float64
	for _, xi := range x {
		k := ShapeTriangular.Weight((xi - 2.5) / 3)
		num += math.Abs(k)
		energy += k * k
	}
	assert.InDelta(t, num*num/energy, s, 1e-9)
}

func TestScoreIsSignInvariant(t *testing.T) {
	x, chi := stepResiduals(100, 0.1, 0.3, 4, 49, 1)
	neg := make([]float64, len(chi))
	for i, v := range chi {
		neg[i] = -v
	}
	a, ok := Score(x, chi, 4.95, 1, 12)
	require.True(t, ok)
	b, _ := Score(x, neg, 4.95, 1, 12)
	assert.InDelta(t, a, b, 1e-9)
}

func TestScoreIgnoresLevelWithFullSupport(t *testing.T) {
	x := make([]float64, 101)
	chi := make([]float64, 101)
	for i := range x {
		x[i] = float64(i)
		chi[i] = 3
	}
	s, ok := Score(x, chi, 50.5, 20, 12)
	require.True(t, ok)
	assert.InDelta(t, 0, s, 1e-9)

	// A one-sided window sees the level as a contrast.
	edge, ok := Score(x, chi, 99.5, 20, 12)
	require.True(t, ok)
	assert.Greater(t, edge, 25.0)
}

func TestFindPrefersStepOverEdge(t *testing.T) {
	// Both halves offset by ±2.5 leave the edges one-sided; the step must
	// still score highest.
	x, chi := stepResiduals(501, 0.1, 0.5, 5, 250, 7)
	tm, score := Profile(x, chi, 4, 12, ShapeTriangular)
	i, ok := Find(x, chi, 4, 12, 25)
	require.True(t, ok)
	assert.Greater(t, score[i], score[len(score)-3])
	assert.Greater(t, score[i], score[2])
	assert.InDelta(t, 25.05, tm[i], 0.1)
}

func TestScoreUndefinedWithoutSupport(t *testing.T) {
	x := []float64{0, 10, 20}
	_, ok := Score(x, []float64{1, 2, 3}, 5, 1, 12)
	assert.False(t, ok)
	_, ok = Score(x, []float64{1, 2, 3}, 5, 0, 12)
	assert.False(t, ok)
	_, ok = Score(nil, nil, 5, 1, 12)
	assert.False(t, ok)
}

func TestFindLocatesStep(t *testing.T) {
	const spacing = 0.1
	x, chi := stepResiduals(501, spacing, 0.5, 5, 250, 7)
	i, ok := Find(x, chi, 4, 12, 25)
	require.True(t, ok)
	tStar := 0.5 * (x[250] + x[251])
	assert.InDelta(t, tStar, 0.5*(x[i]+x[i+1]), spacing)
}

func TestFindNoneOnNoise(t *testing.T) {
	x, chi := stepResiduals(500, 0.1, 1, 0, 0, 11)
	i, ok := Find(x, chi, 4, 12, 25)
	assert.False(t, ok)
	assert.Equal(t, -1, i)
}

func TestFindRespectsThreshold(t *testing.T) {
	x, chi := stepResiduals(200, 0.1, 0.2, 3, 100, 3)
	_, ok := Find(x, chi, 2, 12, 1e9)
	assert.False(t, ok)
}

func TestScanMarginExcludesEdges(t *testing.T) {
	// The only admissible candidate for four samples sits in the middle.
	x := []float64{0, 1, 2, 3}
	chi := []float64{-3, -3, 3, 3}
	s := Scanner{Widths: []float64{2}, Q: 12, Threshold: 0}
	found := s.Scan(x, chi, nil)
	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].Index)
	assert.Equal(t, 1.5, found[0].Time)

	s.Margin = 3
	assert.Empty(t, s.Scan(x, chi, nil))
}

func TestScanMergesWidthsAndRecords(t *testing.T) {
	x, chi := stepResiduals(400, 0.1, 0.3, 5, 200, 5)
	rec := NewRecord(1e-9)
	s := Scanner{Widths: []float64{2, 4, 8}, Q: 12, Threshold: 25}

	found := s.Scan(x, chi, rec)
	require.NotEmpty(t, found)
	assert.Equal(t, len(found), rec.Len())
	assert.InDelta(t, 0.5*(x[200]+x[201]), found[0].Time, 0.1)
	seen := map[float64]bool{}
	for _, bp := range found {
		assert.False(t, seen[bp.Time], "duplicate breakpoint %g", bp.Time)
		seen[bp.Time] = true
		assert.Greater(t, bp.Score, 25.0)
	}

	again := s.Scan(x, chi, rec)
	for _, bp := range again {
		assert.False(t, seen[bp.Time], "re-detected %g", bp.Time)
	}
}

func TestRecord(t *testing.T) {
	r := NewRecord(0.01)
	assert.True(t, r.Add(1))
	assert.False(t, r.Add(1.005))
	assert.True(t, r.Add(2))
	assert.True(t, r.Contains(1.999))
	assert.False(t, r.Contains(1.5))
	assert.Equal(t, []float64{1, 2}, r.Times())
	assert.Equal(t, 2, r.Len())

	var empty *Record
	assert.False(t, empty.Contains(1))
	assert.False(t, empty.Add(1))
	assert.Zero(t, empty.Len())
	assert.Nil(t, empty.Times())
}

func TestProfile(t *testing.T) {
	x, chi := stepResiduals(120, 0.1, 0.2, 4, 60, 9)
	tmid, score := Profile(x, chi, 1, 12, ShapeTriangular)
	require.Len(t, tmid, 119)
	require.Len(t, score, 119)

	peak := 0
	for i, v := range score {
		require.False(t, math.IsNaN(v))
		if v > score[peak] {
			peak = i
		}
	}
	assert.InDelta(t, 60, peak, 1)

	tmid, score = Profile([]float64{0, 10, 20}, []float64{0, 1, 0}, 1, 12, ShapeQuadratic)
	assert.Equal(t, []float64{5, 15}, tmid)
	assert.True(t, math.IsNaN(score[0]))
	assert.True(t, math.IsNaN(score[1]))

	tmid, score = Profile([]float64{1}, []float64{1}, 1, 12, ShapeTriangular)
	assert.Nil(t, tmid)
	assert.Nil(t, score)
}
