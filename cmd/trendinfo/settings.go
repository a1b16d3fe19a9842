package main

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-detrend/detrend"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// settings is the resolved run configuration: the selected preset with any
// explicitly set flag, environment or file value applied on top.
type settings struct {
	preset  detrend.Preset
	profile detrend.Profile
	seed    int64
}

func parsePreset(name string) (detrend.Preset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return detrend.PresetDefault, nil
	case "kepler":
		return detrend.PresetKepler, nil
	default:
		return 0, fmt.Errorf("unknown preset %q (want default or kepler)", name)
	}
}

func loadSettings(v *viper.Viper) (settings, error) {
	preset, err := parsePreset(v.GetString("preset"))
	if err != nil {
		return settings{}, err
	}
	p := detrend.PresetProfile(preset)
	if v.IsSet("q") {
		p.Q = v.GetFloat64("q")
	}
	if v.IsSet("dt") {
		p.Dt = v.GetFloat64("dt")
	}
	if v.IsSet("tol") {
		p.Tol = v.GetFloat64("tol")
	}
	if v.IsSet("maxiter") {
		p.MaxIter = v.GetInt("maxiter")
	}
	if v.IsSet("maxditer") {
		p.MaxDIter = v.GetInt("maxditer")
	}
	if v.IsSet("fill-times") {
		p.FillTimes = v.GetFloat64("fill-times")
	}
	if v.IsSet("nfill") {
		p.NFill = v.GetInt("nfill")
	}
	if v.IsSet("threshold") {
		p.Threshold = v.GetFloat64("threshold")
	}
	if p.FillTimes < 0 {
		return settings{}, fmt.Errorf("fill-times must be >= 0: %g", p.FillTimes)
	}
	return settings{preset: preset, profile: p, seed: v.GetInt64("seed")}, nil
}

// options maps the settings onto detrend options. Validation is left to
// detrend so flag errors read the same as library errors.
func (s settings) options(logger *zap.Logger) []detrend.Option {
	p := s.profile
	opts := []detrend.Option{
		detrend.WithPreset(s.preset),
		detrend.WithQ(p.Q),
		detrend.WithDt(p.Dt),
		detrend.WithTol(p.Tol),
		detrend.WithMaxIter(p.MaxIter),
		detrend.WithMaxDIter(p.MaxDIter),
		detrend.WithNFill(p.NFill),
		detrend.WithThreshold(p.Threshold),
		detrend.WithWidthScales(p.WidthScale),
		detrend.WithLogger(logger),
	}
	if p.FillTimes > 0 {
		opts = append(opts, detrend.WithFillTimes(p.FillTimes))
	} else {
		opts = append(opts, detrend.WithoutFillTimes())
	}
	return opts
}
