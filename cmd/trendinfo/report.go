package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-detrend/detrend"
	"github.com/cwbudde/algo-detrend/stats/residual"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"go.uber.org/zap"
)

// row holds the diagnostics of one scenario run.
type row struct {
	scenario    string
	samples     int
	knots       int
	passes      int
	converged   bool
	breakpoints []float64
	rmsPPM      float64
	p2pPPM      float64
}

func runScenario(e scenario, s settings, logger *zap.Logger) (row, error) {
	lc := e.gen(s.seed)
	opts := s.options(logger)

	trend, err := detrend.Fit(lc.X, lc.Y, lc.Yerr, opts...)
	if err != nil {
		return row{}, err
	}
	flux, _, err := detrend.Remove(lc.X, lc.Y, lc.Yerr, opts...)
	if err != nil {
		return row{}, err
	}

	st := residual.Calculate(flux)
	r := row{
		scenario:  e.name,
		samples:   trend.Samples,
		knots:     len(trend.Knots),
		passes:    trend.Passes,
		converged: trend.Converged(),
		rmsPPM:    residual.PPM(st.StdDev),
		p2pPPM:    residual.PPM(st.PointToPoint),
	}
	for _, d := range trend.Discontinuities {
		r.breakpoints = append(r.breakpoints, d.Time)
	}
	if logger != nil {
		logger.Info("fitted scenario",
			zap.String("scenario", e.name),
			zap.Int("passes", r.passes),
			zap.Int("breakpoints", len(r.breakpoints)),
			zap.Float64("rms_ppm", r.rmsPPM))
	}
	return r, nil
}

func formatBreakpoints(ts []float64) string {
	if len(ts) == 0 {
		return "-"
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = strconv.FormatFloat(t, 'f', 3, 64)
	}
	return strings.Join(parts, ",")
}

func printTable(w io.Writer, rows []row) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Scenario", "Samples", "Knots", "Passes", "Converged", "Breakpoints", "RMS [ppm]", "P2P [ppm]"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.scenario,
			strconv.Itoa(r.samples),
			strconv.Itoa(r.knots),
			strconv.Itoa(r.passes),
			strconv.FormatBool(r.converged),
			formatBreakpoints(r.breakpoints),
			strconv.FormatFloat(r.rmsPPM, 'f', 1, 64),
			strconv.FormatFloat(r.p2pPPM, 'f', 1, 64),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
