// Command trendinfo fits and removes trends from synthetic light curves and
// prints the fit diagnostics.
//
// Usage:
//
//	trendinfo [flags] [scenario ...]
//
// Without arguments it runs every known scenario.
//
// Examples:
//
//	trendinfo step
//	trendinfo --q 4 --dt 2 transit gap
//	trendinfo --preset kepler --verbose
//	trendinfo --list
//
// Flags can also be set through TRENDINFO_* environment variables or a
// .trendinfo.yaml file in the working or home directory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
