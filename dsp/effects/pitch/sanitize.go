package pitch

import (
	"math"

	"github.com/cwbudde/algo-patch/dsp/core"
)

const (
	// DefaultFFTSize is the analysis window length used when none is given.
	DefaultFFTSize = 2048
	// DefaultOverlap is the number of analysis windows per FFT size.
	DefaultOverlap = 4
	// DefaultMaxChannels is the number of channel streams allocated up front.
	DefaultMaxChannels = 2
	// MinFFTSize and MaxFFTSize bound the sanitised FFT size.
	MinFFTSize = 512
	MaxFFTSize = 8192
	// MinOverlap is the smallest supported overlap factor.
	MinOverlap = 2

	// MinRatio and MaxRatio bound the pitch ratio.
	MinRatio = 0.25
	MaxRatio = 4.0
	// DefaultRatio is the identity ratio.
	DefaultRatio = 1.0
	// RatioSmoothing is the per-block one-pole coefficient applied to the
	// requested ratio.
	RatioSmoothing = 0.02

	ringFactor = 4
)

// SanitizeFFTSize rounds size up to the next power of two in
// [MinFFTSize, MaxFFTSize].
func SanitizeFFTSize(size int) int {
	power := MinFFTSize
	for power < size && power < MaxFFTSize {
		power <<= 1
	}

	return power
}

// SanitizeOverlap clamps overlap to [MinOverlap, fftSize] and reduces it
// until it divides fftSize.
func SanitizeOverlap(overlap, fftSize int) int {
	value := max(overlap, MinOverlap)
	if value > fftSize {
		value = fftSize
	}

	for value > MinOverlap && fftSize%value != 0 {
		value--
	}

	if fftSize%value != 0 {
		value = MinOverlap
	}

	return value
}

// EstimateLatency returns fftSize-hop for the sanitised configuration, the
// number of samples a dry path must be delayed by to line up with the
// shifted output.
func EstimateLatency(fftSize, overlap int) int {
	size := SanitizeFFTSize(fftSize)
	hop := size / SanitizeOverlap(overlap, size)

	return size - hop
}

// BlockLatency returns the end-to-end delay of a stream driven in fixed
// blocks of quantum frames, for quanta that divide the FFT size. A block
// shorter than the hop cannot deliver a hop's worth of input before its
// output is due, so the delay grows by hop-quantum.
func BlockLatency(fftSize, hop, quantum int) int {
	if quantum <= 0 || quantum >= hop {
		return fftSize - hop
	}

	return fftSize - quantum
}

// RatioFromSemitones converts a transposition in semitones and cents to a
// pitch ratio clamped to [MinRatio, MaxRatio]. Non-finite input yields
// DefaultRatio.
func RatioFromSemitones(semitones, cents float64) float64 {
	total := semitones + cents/100
	if !core.IsFinite(total) {
		return DefaultRatio
	}

	return core.Clamp(math.Pow(2, total/12), MinRatio, MaxRatio)
}

// sanitizeRatio returns ratio clamped to [MinRatio, MaxRatio], or fallback
// when ratio is non-finite or not positive.
func sanitizeRatio(ratio, fallback float64) float64 {
	if !core.IsFinite(ratio) || ratio <= 0 {
		return fallback
	}

	return core.Clamp(ratio, MinRatio, MaxRatio)
}

// wrapPhase maps x into (-π, π].
func wrapPhase(x float64) float64 {
	return x - 2*math.Pi*math.Ceil((x-math.Pi)/(2*math.Pi))
}
