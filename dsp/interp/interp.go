package interp

import "math"

// Linear2 interpolates between x0 and x1 at t in [0,1).
func Linear2(t, x0, x1 float64) float64 {
	return x0 + (x1-x0)*t
}

// Split returns floor(pos) and pos-floor(pos).
func Split(pos float64) (int, float64) {
	base := math.Floor(pos)
	return int(base), pos - base
}
