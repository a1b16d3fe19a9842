package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/cwbudde/algo-detrend/internal/synth"
)

// cadence is roughly the Kepler long cadence in days.
const cadence = 0.02

type scenario struct {
	name string
	desc string
	gen  func(seed int64) synth.LightCurve
}

var registry = []scenario{
	{"smooth", "slow polynomial and sinusoidal drift, 100 ppm noise", smoothScenario},
	{"step", "flat flux with a 5 sigma jump at t=20.01", stepScenario},
	{"transit", "linear drift with two 3 sigma box transits", transitScenario},
	{"gap", "smooth drift with a five day gap", gapScenario},
	{"constant", "noiseless constant flux", constantScenario},
}

func times() []float64 {
	return synth.Times(2001, 0, cadence)
}

func smoothScenario(seed int64) synth.LightCurve {
	x := times()
	clean := synth.Polynomial(x, 1, 2e-4, -3e-6)
	for i, t := range x {
		clean[i] += 5e-4 * math.Sin(2*math.Pi*t/30)
	}
	return synth.Noisy(x, clean, 1e-4, seed)
}

func stepScenario(seed int64) synth.LightCurve {
	x := times()
	clean := synth.Ones(len(x))
	synth.AddStep(clean, x, 20.01, 5e-3)
	return synth.Noisy(x, clean, 1e-3, seed)
}

func transitScenario(seed int64) synth.LightCurve {
	x := times()
	clean := synth.Polynomial(x, 1, 1e-4)
	synth.AddTransit(clean, x, 10, 0.25, 3e-3)
	synth.AddTransit(clean, x, 30, 0.25, 3e-3)
	return synth.Noisy(x, clean, 1e-3, seed)
}

func gapScenario(seed int64) synth.LightCurve {
	return synth.Cut(smoothScenario(seed), 12, 17)
}

func constantScenario(int64) synth.LightCurve {
	x := times()
	return synth.LightCurve{X: x, Y: synth.Ones(len(x)), Yerr: synth.DC(1e-4, len(x))}
}

func printList(w io.Writer) error {
	entries := append([]scenario(nil), registry...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", e.name, e.desc); err != nil {
			return err
		}
	}
	return nil
}

// resolveScenarios maps names to scenarios, warning about unknown ones.
// No names selects all scenarios.
func resolveScenarios(names []string, warn io.Writer) []scenario {
	if len(names) == 0 {
		return registry
	}
	byName := make(map[string]scenario, len(registry))
	for _, e := range registry {
		byName[e.name] = e
	}

	var result []scenario
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		e, ok := byName[name]
		if !ok {
			_, _ = fmt.Fprintf(warn, "warning: unknown scenario %q (use --list to see available)\n", name)
			continue
		}
		result = append(result, e)
	}
	return result
}
