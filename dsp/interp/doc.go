// Package interp provides interpolation primitives used by delay-based DSP blocks.
//
// [Linear2] is the two-tap interpolator used for fractional-sample delay
// reads; [Split] decomposes a fractional position into its integer base and
// fractional remainder.
package interp
