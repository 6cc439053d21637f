//go:build !fastmath

package pitch

import "math"

// binMagnitude computes |re + j·im| using standard library math.
func binMagnitude(re, im float64) float64 {
	return math.Hypot(re, im)
}
