package spectrum

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-patch/dsp/core"
	"github.com/cwbudde/algo-patch/dsp/window"
)

var errShortSignal = errors.New("spectrum: signal shorter than two samples")

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// PowerFromParts computes |X[k]|^2 = re[k]^2 + im[k]^2 into dst.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	re := make([]float64, len(in))
	im := make([]float64, len(in))
	out := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	return out
}

// Phase returns arg(X[k]) for each complex spectrum bin in radians.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// UnwrapPhase returns a new phase slice with +/-2*pi discontinuities removed.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}
	out := make([]float64, len(phase))
	out[0] = phase[0]
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		switch {
		case d > math.Pi:
			offset -= 2 * math.Pi
		case d < -math.Pi:
			offset += 2 * math.Pi
		}
		out[i] = phase[i] + offset
	}
	return out
}

// PeakBin returns the index of the largest value in mag, ignoring DC.
// It returns 0 when mag has fewer than two bins.
func PeakBin(mag []float64) int {
	best := 0
	bestMag := math.Inf(-1)
	for k := 1; k < len(mag); k++ {
		if mag[k] > bestMag {
			bestMag = mag[k]
			best = k
		}
	}
	return best
}

// Analyzer transforms real frames of one fixed size.
//
// The frame is Hann-windowed before the transform. Storage is allocated
// once; an Analyzer is not safe for concurrent use.
type Analyzer struct {
	size int
	plan *algofft.Plan[complex128]
	win  []float64
	buf  []complex128
	re   []float64
	im   []float64
	mag  []float64
}

// NewAnalyzer creates an analyzer for frames of size samples.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size < 2 || !core.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("spectrum: analyzer size must be a power of two >= 2: %d", size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	half := size/2 + 1

	return &Analyzer{
		size: size,
		plan: plan,
		win:  window.Generate(window.TypeHann, size, window.WithPeriodic()),
		buf:  make([]complex128, size),
		re:   make([]float64, half),
		im:   make([]float64, half),
		mag:  make([]float64, half),
	}, nil
}

// Size returns the frame size.
func (a *Analyzer) Size() int { return a.size }

// MagnitudeSpectrum returns the windowed magnitude spectrum of frame for
// bins 0..Size/2. frame is zero-padded or truncated to Size. The returned
// slice is owned by the analyzer and overwritten by the next call.
func (a *Analyzer) MagnitudeSpectrum(frame []float64) ([]float64, error) {
	for i := range a.buf {
		x := 0.0
		if i < len(frame) {
			x = frame[i]
		}
		a.buf[i] = complex(x*a.win[i], 0)
	}

	if err := a.plan.Forward(a.buf, a.buf); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	for k := range a.mag {
		a.re[k] = real(a.buf[k])
		a.im[k] = imag(a.buf[k])
	}

	vecmath.Magnitude(a.mag, a.re, a.im)
	return a.mag, nil
}

// PeakFrequency returns the frequency in Hz of the strongest non-DC bin of
// frame, refined by parabolic interpolation over the neighbouring bins.
func (a *Analyzer) PeakFrequency(frame []float64, sampleRate float64) (float64, error) {
	mag, err := a.MagnitudeSpectrum(frame)
	if err != nil {
		return 0, err
	}

	k := PeakBin(mag)
	offset := 0.0
	if k > 0 && k < len(mag)-1 {
		l, c, r := mag[k-1], mag[k], mag[k+1]
		if den := l - 2*c + r; den != 0 {
			offset = 0.5 * (l - r) / den
		}
	}

	return (float64(k) + offset) * sampleRate / float64(a.size), nil
}

// DominantFrequency estimates the strongest frequency in signal using the
// largest power-of-two prefix of at most maxSize samples.
func DominantFrequency(signal []float64, sampleRate float64, maxSize int) (float64, error) {
	if len(signal) < 2 {
		return 0, errShortSignal
	}

	size := core.NextPowerOfTwo(len(signal))
	if size > len(signal) {
		size >>= 1
	}
	if maxSize > 1 && size > maxSize {
		size = core.NextPowerOfTwo(maxSize)
		if size > maxSize {
			size >>= 1
		}
	}

	a, err := NewAnalyzer(size)
	if err != nil {
		return 0, err
	}

	return a.PeakFrequency(signal[:size], sampleRate)
}
