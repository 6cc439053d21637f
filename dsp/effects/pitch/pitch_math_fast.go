//go:build fastmath

package pitch

import (
	"github.com/meko-christian/algo-approx"
)

// binMagnitude computes |re + j·im| using fast approximation.
func binMagnitude(re, im float64) float64 {
	return approx.FastSqrt(re*re + im*im)
}
