// Package numeric holds the rounding rules shared by the reporting engines.
package numeric

import (
	"math"
	"strconv"
)

// Round rounds x to the given number of decimal places using round-half-to-even
// on the exact binary value of x. A value such as 2.675 is stored as
// 2.67499999... and therefore rounds down, matching correctly rounded decimal
// formatting rather than the naive x*100 approach.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	formatted := strconv.FormatFloat(x, 'f', places, 64)
	rounded, err := strconv.ParseFloat(formatted, 64)
	if err != nil {
		return x
	}
	if rounded == 0 {
		// Normalise -0 so JSON output never shows "-0".
		return 0
	}
	return rounded
}

// Round2 rounds to two decimal places.
func Round2(x float64) float64 {
	return Round(x, 2)
}

// RoundInt rounds to the nearest integer, ties to even.
func RoundInt(x float64) int {
	return int(math.RoundToEven(x))
}
