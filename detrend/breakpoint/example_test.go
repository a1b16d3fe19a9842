package breakpoint_test

import (
	"fmt"

	"github.com/cwbudde/algo-detrend/detrend/breakpoint"
)

func ExampleFind() {
	x := make([]float64, 40)
	chi := make([]float64, 40)
	for i := range x {
		x[i] = float64(i)
		if i >= 20 {
			chi[i] = 4
		}
	}
	i, ok := breakpoint.Find(x, chi, 5, 12, 5)
	fmt.Println(ok, i, 0.5*(x[i]+x[i+1]))
	// Output:
	// true 19 19.5
}
