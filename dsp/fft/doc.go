// Package fft provides a fixed-size radix-2 FFT for real-time processors.
//
// [Radix2] precomputes a bit-reversal permutation and cos/sin twiddle
// tables at construction and then transforms split real/imaginary arrays
// in place without allocating. The forward transform is the unnormalized
// DFT; the inverse uses conjugated twiddles and scales by 1/N, so
// Inverse(Forward(x)) == x up to rounding.
package fft
