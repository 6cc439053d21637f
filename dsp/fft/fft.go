package fft

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-patch/dsp/core"
)

const (
	// MinSize is the smallest supported transform length.
	MinSize = 2
	// MaxSize is the largest supported transform length.
	MaxSize = 8192
)

var (
	// ErrNotPowerOfTwo is returned for transform sizes that are not a power of two.
	ErrNotPowerOfTwo = errors.New("fft size must be a power of two")
	// ErrSizeOutOfRange is returned for sizes outside [MinSize, MaxSize].
	ErrSizeOutOfRange = errors.New("fft size out of range")
)

// Radix2 is an iterative Cooley-Tukey transform of one fixed size.
// Tables are immutable after construction, so a Radix2 may be shared by
// several processors running on the same thread.
type Radix2 struct {
	size int
	rev  []int
	cos  []float64
	sin  []float64
}

// New builds the permutation and twiddle tables for size points.
func New(size int) (*Radix2, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("fft: %w: %d not in [%d, %d]", ErrSizeOutOfRange, size, MinSize, MaxSize)
	}

	levels := core.Log2(size)
	if levels < 0 {
		return nil, fmt.Errorf("fft: %w: %d", ErrNotPowerOfTwo, size)
	}

	f := &Radix2{
		size: size,
		rev:  make([]int, size),
		cos:  make([]float64, size/2),
		sin:  make([]float64, size/2),
	}

	for i := range f.rev {
		f.rev[i] = reverseBits(i, levels)
	}

	for i := range f.cos {
		angle := -2 * math.Pi * float64(i) / float64(size)
		f.cos[i] = math.Cos(angle)
		f.sin[i] = math.Sin(angle)
	}

	return f, nil
}

// Size returns the transform length.
func (f *Radix2) Size() int { return f.size }

// Forward computes the unnormalized DFT of (re, im) in place.
func (f *Radix2) Forward(re, im []float64) { f.Transform(re, im, false) }

// Inverse computes the inverse DFT of (re, im) in place, scaled by 1/Size.
func (f *Radix2) Inverse(re, im []float64) { f.Transform(re, im, true) }

// Transform runs the butterfly network over the first Size elements of re
// and im. Both slices must hold at least Size elements.
func (f *Radix2) Transform(re, im []float64, inverse bool) {
	n := f.size
	if len(re) < n || len(im) < n {
		panic(fmt.Sprintf("fft: buffers shorter than size %d: re=%d im=%d", n, len(re), len(im)))
	}

	re = re[:n]
	im = im[:n]

	for i, j := range f.rev {
		if j > i {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	sign := 1.0
	if inverse {
		sign = -1
	}

	for length := 2; length <= n; length <<= 1 {
		half := length >> 1
		step := n / length

		for start := 0; start < n; start += length {
			for j := range half {
				wr := f.cos[j*step]
				wi := sign * f.sin[j*step]

				a := start + j
				b := a + half

				tr := wr*re[b] - wi*im[b]
				ti := wr*im[b] + wi*re[b]

				re[b] = re[a] - tr
				im[b] = im[a] - ti
				re[a] += tr
				im[a] += ti
			}
		}
	}

	if inverse {
		scale := 1 / float64(n)
		for i := range re {
			re[i] *= scale
			im[i] *= scale
		}
	}
}

func reverseBits(value, bits int) int {
	result := 0
	for range bits {
		result = (result << 1) | (value & 1)
		value >>= 1
	}

	return result
}
