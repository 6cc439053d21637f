package pitch

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-patch/dsp/core"
)

// ErrNoChannels is returned when a shifter is configured with no channels.
var ErrNoChannels = errors.New("pitch shifter needs at least one channel")

// Option configures a Shifter at construction.
type Option func(*config)

type config struct {
	fftSize     int
	overlap     int
	maxChannels int
}

// WithFFTSize sets the analysis window length. It is rounded up to a
// power of two in [MinFFTSize, MaxFFTSize].
func WithFFTSize(size int) Option {
	return func(c *config) { c.fftSize = size }
}

// WithOverlap sets the number of analysis windows per FFT size.
func WithOverlap(overlap int) Option {
	return func(c *config) { c.overlap = overlap }
}

// WithMaxChannels sets how many channel streams are allocated up front.
func WithMaxChannels(n int) Option {
	return func(c *config) { c.maxChannels = n }
}

// Shifter is a multi-channel phase-vocoder pitch shifter.
//
// Channels are processed independently with a shared k-rate ratio.
// Process never allocates: output channels beyond the allocated count are
// silenced. Use EnsureChannels between blocks to grow the channel count.
type Shifter struct {
	sampleRate float64
	fftSize    int
	overlap    int
	ratio      float64
	channels   []*Channel
}

// New creates a pitch shifter at sampleRate.
func New(sampleRate float64, opts ...Option) (*Shifter, error) {
	if !isFinitePositive(sampleRate) {
		return nil, fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}

	cfg := config{
		fftSize:     DefaultFFTSize,
		overlap:     DefaultOverlap,
		maxChannels: DefaultMaxChannels,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.maxChannels <= 0 {
		return nil, fmt.Errorf("pitch shifter: %w: %d", ErrNoChannels, cfg.maxChannels)
	}

	s := &Shifter{
		sampleRate: sampleRate,
		fftSize:    SanitizeFFTSize(cfg.fftSize),
		ratio:      DefaultRatio,
	}
	s.overlap = SanitizeOverlap(cfg.overlap, s.fftSize)

	if err := s.EnsureChannels(cfg.maxChannels); err != nil {
		return nil, err
	}

	return s, nil
}

// SampleRate returns the sample rate in Hz.
func (s *Shifter) SampleRate() float64 { return s.sampleRate }

// FFTSize returns the sanitised analysis window length.
func (s *Shifter) FFTSize() int { return s.fftSize }

// Overlap returns the sanitised overlap factor.
func (s *Shifter) Overlap() int { return s.overlap }

// HopSize returns FFTSize/Overlap.
func (s *Shifter) HopSize() int { return s.fftSize / s.overlap }

// Channels returns the number of allocated channel streams.
func (s *Shifter) Channels() int { return len(s.channels) }

// LatencySamples returns FFTSize-HopSize, the delay between input and
// shifted output when blocks are at least one hop long.
func (s *Shifter) LatencySamples() int { return s.fftSize - s.HopSize() }

// BlockLatency returns the end-to-end delay when driven in blocks of
// quantum frames. See [BlockLatency].
func (s *Shifter) BlockLatency(quantum int) int {
	return BlockLatency(s.fftSize, s.HopSize(), quantum)
}

// Ratio returns the last sane requested ratio.
func (s *Shifter) Ratio() float64 { return s.ratio }

// EnsureChannels allocates channel streams until at least n exist.
func (s *Shifter) EnsureChannels(n int) error {
	for len(s.channels) < n {
		ch, err := NewChannel(s.sampleRate, s.fftSize, s.overlap)
		if err != nil {
			return fmt.Errorf("pitch shifter: %w", err)
		}
		s.channels = append(s.channels, ch)
	}

	return nil
}

// Configure resizes every channel. A zero fftSize or overlap keeps the
// current value; other values are sanitised. All streams are reset.
func (s *Shifter) Configure(fftSize, overlap int) error {
	if fftSize > 0 {
		s.fftSize = SanitizeFFTSize(fftSize)
	}

	if overlap <= 0 {
		overlap = s.overlap
	}
	s.overlap = SanitizeOverlap(overlap, s.fftSize)

	for _, ch := range s.channels {
		if err := ch.Configure(s.fftSize, s.overlap); err != nil {
			return fmt.Errorf("pitch shifter: %w", err)
		}
	}

	return nil
}

// Reset clears the state of every channel.
func (s *Shifter) Reset() {
	s.ratio = DefaultRatio
	for _, ch := range s.channels {
		ch.Reset()
	}
}

// Process shifts inputs into outputs.
//
// ratio is the k-rate parameter array for the block; its trailing value is
// used, an empty array means [DefaultRatio] and a non-finite value keeps
// the previous ratio. When inputs has fewer channels than outputs, the
// last input channel is reused; with no inputs every channel is fed
// silence.
func (s *Shifter) Process(inputs, outputs [][]float64, ratio []float64) {
	target := DefaultRatio
	if len(ratio) > 0 {
		target = sanitizeRatio(ratio[len(ratio)-1], s.ratio)
	}
	s.ratio = target

	for ch, out := range outputs {
		if ch >= len(s.channels) {
			core.Zero(out)
			continue
		}

		var in []float64
		if len(inputs) > 0 {
			in = inputs[min(ch, len(inputs)-1)]
		}

		s.channels[ch].ProcessBlock(in, out, target)
	}
}
