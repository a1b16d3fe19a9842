package detrend

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-detrend/detrend/breakpoint"
	"github.com/cwbudde/algo-detrend/spline"
	"go.uber.org/zap"
)

// Preset selects a predefined parameter profile.
type Preset int

const (
	// PresetDefault is the general-purpose profile.
	PresetDefault Preset = iota
	// PresetKepler is tuned for Kepler long-cadence light curves: harder
	// outlier clipping, a narrower discontinuity kernel and knot filling
	// across gaps longer than about 2.7 cadences.
	PresetKepler
)

// Profile exposes the parameters of a preset.
type Profile struct {
	Q         float64
	Dt        float64
	Tol       float64
	MaxIter   int
	MaxDIter  int
	NFill     int
	FillTimes float64 // 0 disables gap filling
	// WidthScale is the kernel half-width in units of Dt.
	WidthScale float64
	Threshold  float64
}

// PresetProfile returns the parameters used by preset p.
func PresetProfile(p Preset) Profile {
	switch p {
	case PresetKepler:
		return Profile{
			Q: 4, Dt: 4, Tol: 1.25e-3, MaxIter: 15, MaxDIter: 4, NFill: 4,
			FillTimes: math.Pow(10, -1.25), WidthScale: 0.5, Threshold: 25,
		}
	default:
		return Profile{
			Q: 12, Dt: 4, Tol: 1.25e-3, MaxIter: 15, MaxDIter: 4, NFill: 4,
			WidthScale: 1, Threshold: 25,
		}
	}
}

type config struct {
	q         float64
	dt        float64
	tol       float64
	maxIter   int
	maxDIter  int
	fillGaps  bool
	fillTimes float64
	nfill     int
	gapFill   int

	widths      []float64
	widthScales []float64
	threshold   float64
	margin      int
	shape       breakpoint.Shape
	shapeSet    bool

	anchors  bool
	fitter   Fitter
	degree   int
	logger   *zap.Logger
	observer func(Event)
}

// Option configures a fit.
type Option func(*config)

func defaultConfig() config {
	cfg := config{
		anchors: true,
		fitter:  SplineFitter,
		degree:  3,
		margin:  breakpoint.DefaultMargin,
		shape:   breakpoint.ShapeTriangular,
	}
	cfg.applyProfile(PresetProfile(PresetDefault))
	return cfg
}

func (c *config) applyProfile(p Profile) {
	c.q, c.dt, c.tol = p.Q, p.Dt, p.Tol
	c.maxIter, c.maxDIter, c.nfill = p.MaxIter, p.MaxDIter, p.NFill
	c.fillGaps, c.fillTimes = p.FillTimes > 0, p.FillTimes
	c.widths = nil
	c.widthScales = []float64{p.WidthScale}
	c.threshold = p.Threshold
}

// WithPreset loads a parameter profile. Options given after it override
// individual values.
func WithPreset(p Preset) Option {
	return func(cfg *config) {
		cfg.applyProfile(PresetProfile(p))
	}
}

// WithQ sets the reweighting severity. Lower values suppress outliers harder.
func WithQ(q float64) Option {
	return func(cfg *config) { cfg.q = q }
}

// WithDt sets the base knot spacing. Unless widths are set explicitly, the
// discontinuity kernel half-widths scale with it.
func WithDt(dt float64) Option {
	return func(cfg *config) { cfg.dt = dt }
}

// WithTol sets the IRLS convergence threshold on the change of the median χ².
func WithTol(tol float64) Option {
	return func(cfg *config) { cfg.tol = tol }
}

// WithMaxIter caps the reweighting iterations per refinement pass.
func WithMaxIter(n int) Option {
	return func(cfg *config) { cfg.maxIter = n }
}

// WithMaxDIter caps the discontinuity refinement passes. It must be >= 1.
func WithMaxDIter(n int) Option {
	return func(cfg *config) { cfg.maxDIter = n }
}

// WithFillTimes enables knot filling across sample gaps longer than minGap.
func WithFillTimes(minGap float64) Option {
	return func(cfg *config) {
		cfg.fillGaps = true
		cfg.fillTimes = minGap
	}
}

// WithoutFillTimes disables gap filling.
func WithoutFillTimes() Option {
	return func(cfg *config) { cfg.fillGaps = false }
}

// WithNFill sets the knot count inserted per gap and per breakpoint.
// Breakpoints always get at least four knots.
func WithNFill(n int) Option {
	return func(cfg *config) { cfg.nfill = n }
}

// WithGapFill sets the knot count per gap separately from WithNFill.
func WithGapFill(n int) Option {
	return func(cfg *config) { cfg.gapFill = n }
}

// WithWidths sets absolute kernel half-widths for the discontinuity search.
// Each width is searched independently in every refinement pass.
func WithWidths(widths ...float64) Option {
	return func(cfg *config) {
		cfg.widths = append([]float64(nil), widths...)
	}
}

// WithWidthScales sets kernel half-widths as multiples of dt.
func WithWidthScales(scales ...float64) Option {
	return func(cfg *config) {
		cfg.widths = nil
		cfg.widthScales = append([]float64(nil), scales...)
	}
}

// WithThreshold sets the minimum kernel score of an accepted breakpoint.
func WithThreshold(v float64) Option {
	return func(cfg *config) { cfg.threshold = v }
}

// WithMargin sets the minimum sample count on each side of a candidate
// breakpoint.
func WithMargin(n int) Option {
	return func(cfg *config) { cfg.margin = n }
}

// WithKernelShape selects the discontinuity kernel profile.
func WithKernelShape(s breakpoint.Shape) Option {
	return func(cfg *config) { cfg.shape, cfg.shapeSet = s, true }
}

// WithAnchors toggles the unit-weight anchor points added at every knot.
func WithAnchors(on bool) Option {
	return func(cfg *config) { cfg.anchors = on }
}

// WithFitter replaces the spline regression backend. A nil fitter makes
// every fit fail with [ErrMissingFitter].
func WithFitter(f Fitter) Option {
	return func(cfg *config) { cfg.fitter = f }
}

// WithDegree sets the spline degree.
func WithDegree(k int) Option {
	return func(cfg *config) { cfg.degree = k }
}

// WithLogger sets the logger for debug diagnostics. nil restores the no-op
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithObserver installs a callback receiving fit events synchronously.
func WithObserver(fn func(Event)) Option {
	return func(cfg *config) { cfg.observer = fn }
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (c config) validate() error {
	if c.maxDIter <= 0 {
		return fmt.Errorf("%w: maxditer must be > 0: %d", ErrInvalidConfig, c.maxDIter)
	}
	if c.maxIter <= 0 {
		return fmt.Errorf("%w: maxiter must be > 0: %d", ErrInvalidConfig, c.maxIter)
	}
	if !(c.q > 0) || math.IsInf(c.q, 0) {
		return fmt.Errorf("%w: q must be > 0: %g", ErrInvalidConfig, c.q)
	}
	if !(c.dt > 0) || math.IsInf(c.dt, 0) {
		return fmt.Errorf("%w: dt must be > 0: %g", ErrInvalidConfig, c.dt)
	}
	if !(c.tol >= 0) {
		return fmt.Errorf("%w: tol must be >= 0: %g", ErrInvalidConfig, c.tol)
	}
	if c.nfill <= 0 {
		return fmt.Errorf("%w: nfill must be > 0: %d", ErrInvalidConfig, c.nfill)
	}
	if c.gapFill < 0 {
		return fmt.Errorf("%w: gap fill must be >= 0: %d", ErrInvalidConfig, c.gapFill)
	}
	if c.fillGaps && !(c.fillTimes > 0) {
		return fmt.Errorf("%w: fill times must be > 0: %g", ErrInvalidConfig, c.fillTimes)
	}
	if c.degree < 1 || c.degree > spline.MaxDegree {
		return fmt.Errorf("%w: degree must be in [1,%d]: %d", ErrInvalidConfig, spline.MaxDegree, c.degree)
	}
	if math.IsNaN(c.threshold) {
		return fmt.Errorf("%w: threshold is NaN", ErrInvalidConfig)
	}
	widths := c.kernelWidths()
	if len(widths) == 0 {
		return fmt.Errorf("%w: no kernel widths", ErrInvalidConfig)
	}
	for _, w := range widths {
		if !(w > 0) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: kernel width must be > 0: %g", ErrInvalidConfig, w)
		}
	}
	return nil
}

// kernelWidths resolves the absolute kernel half-widths.
func (c config) kernelWidths() []float64 {
	if len(c.widths) > 0 {
		return c.widths
	}
	out := make([]float64, len(c.widthScales))
	for i, s := range c.widthScales {
		out[i] = s * c.dt
	}
	return out
}

func (c config) gapKnots() int {
	if c.gapFill > 0 {
		return c.gapFill
	}
	return c.nfill
}

func (c config) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func (c config) emit(ev Event) {
	if c.observer != nil {
		c.observer(ev)
	}
}
