package allpass

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-patch/dsp/core"
	"github.com/cwbudde/algo-patch/dsp/delay"
)

const (
	// DefaultGain is the feedback gain used until a valid gain is supplied.
	DefaultGain = 0.5
	// MaxGain bounds |gain| to keep the feedback path stable.
	MaxGain = 0.999
	// MinMaxDelay is the smallest accepted maximum delay in samples.
	MinMaxDelay = 2

	defaultMaxDelaySeconds     = 0.2
	defaultDefaultDelaySeconds = 0.05
	bufferPadding              = 4
)

// ErrNoChannels is returned when an allpass is created without channels.
var ErrNoChannels = errors.New("allpass needs at least one channel")

// Option configures an Allpass at construction.
type Option func(*config)

type config struct {
	maxDelay     int
	defaultDelay int
	channels     int
}

// WithMaxDelaySamples sets the longest supported delay. Values below
// MinMaxDelay are raised to it.
func WithMaxDelaySamples(n int) Option {
	return func(c *config) { c.maxDelay = n }
}

// WithDefaultDelaySamples sets the delay used until a valid delay parameter
// arrives.
func WithDefaultDelaySamples(n int) Option {
	return func(c *config) { c.defaultDelay = n }
}

// WithChannels sets how many channel delay lines are allocated up front.
func WithChannels(n int) Option {
	return func(c *config) { c.channels = n }
}

// Allpass is a multi-channel fractional delay allpass filter.
type Allpass struct {
	sampleRate   float64
	maxDelay     int
	defaultDelay int

	lastDelay float64
	lastGain  float64

	lines []*delay.Line
}

// New creates an allpass at sampleRate. Without options the maximum delay
// is 0.2 s and the default delay 0.05 s.
func New(sampleRate float64, opts ...Option) (*Allpass, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("allpass sample rate must be > 0: %f", sampleRate)
	}

	cfg := config{
		maxDelay:     int(math.Floor(sampleRate * defaultMaxDelaySeconds)),
		defaultDelay: int(math.Floor(sampleRate * defaultDefaultDelaySeconds)),
		channels:     1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.channels <= 0 {
		return nil, fmt.Errorf("allpass: %w: %d", ErrNoChannels, cfg.channels)
	}

	a := &Allpass{sampleRate: sampleRate}
	a.maxDelay = max(MinMaxDelay, cfg.maxDelay)
	a.defaultDelay = core.ClampInt(cfg.defaultDelay, 1, a.maxDelay-1)
	a.lastDelay = float64(a.defaultDelay)
	a.lastGain = DefaultGain

	if err := a.EnsureChannels(cfg.channels); err != nil {
		return nil, err
	}

	return a, nil
}

// SampleRate returns the sample rate in Hz.
func (a *Allpass) SampleRate() float64 { return a.sampleRate }

// MaxDelaySamples returns the longest supported delay.
func (a *Allpass) MaxDelaySamples() int { return a.maxDelay }

// DefaultDelaySamples returns the fallback delay.
func (a *Allpass) DefaultDelaySamples() int { return a.defaultDelay }

// Channels returns the number of allocated delay lines.
func (a *Allpass) Channels() int { return len(a.lines) }

// EnsureChannels allocates delay lines until at least n exist.
func (a *Allpass) EnsureChannels(n int) error {
	for len(a.lines) < n {
		line, err := delay.New(a.maxDelay + bufferPadding)
		if err != nil {
			return fmt.Errorf("allpass: %w", err)
		}
		a.lines = append(a.lines, line)
	}

	return nil
}

// Configure changes the maximum delay. Every line is reallocated, keeping
// the prefix of the old contents that fits and remapping its write cursor
// modulo the new length.
func (a *Allpass) Configure(maxDelaySamples int) error {
	target := max(MinMaxDelay, maxDelaySamples)
	if target == a.maxDelay {
		return nil
	}

	a.maxDelay = target
	for _, line := range a.lines {
		if err := line.Resize(target + bufferPadding); err != nil {
			return fmt.Errorf("allpass: %w", err)
		}
	}

	return nil
}

// Reset zeroes every delay line and write cursor.
func (a *Allpass) Reset() {
	for _, line := range a.lines {
		line.Reset()
	}

	a.lastDelay = float64(a.defaultDelay)
	a.lastGain = DefaultGain
}

// ProcessSample filters one sample on channel ch. A non-finite delay or
// gain keeps the last valid value; a non-finite x is treated as silence.
func (a *Allpass) ProcessSample(ch int, x, delaySamples, gain float64) float64 {
	if ch < 0 || ch >= len(a.lines) {
		return 0
	}

	if core.IsFinite(delaySamples) {
		a.lastDelay = delaySamples
	}
	if core.IsFinite(gain) {
		a.lastGain = core.Clamp(gain, -MaxGain, MaxGain)
	}
	if !core.IsFinite(x) {
		x = 0
	}

	line := a.lines[ch]
	d := core.Clamp(a.lastDelay, 1, float64(a.maxDelay-1))
	g := a.lastGain

	delayed := line.ReadFractional(d)
	s := x - g*delayed
	line.Write(s)

	return delayed + g*s
}

// Process filters inputs into outputs.
//
// delaySamples and gain hold one value per block (k-rate) or one value per
// frame (a-rate); an empty array keeps the last valid value. Output
// channel ch reads inputs[ch], falling back to inputs[0]. Output channels
// beyond the allocated line count are silenced.
func (a *Allpass) Process(inputs, outputs [][]float64, delaySamples, gain []float64) {
	startDelay, startGain := a.lastDelay, a.lastGain
	endDelay, endGain := startDelay, startGain

	for ch, out := range outputs {
		if ch >= len(a.lines) {
			core.Zero(out)
			continue
		}

		var in []float64
		switch {
		case ch < len(inputs):
			in = inputs[ch]
		case len(inputs) > 0:
			in = inputs[0]
		}

		// Each channel sees the same parameter history.
		a.lastDelay, a.lastGain = startDelay, startGain
		for i := range out {
			x := 0.0
			if i < len(in) {
				x = in[i]
			}
			out[i] = a.ProcessSample(ch, x, paramAt(delaySamples, i, a.lastDelay), paramAt(gain, i, a.lastGain))
		}
		endDelay, endGain = a.lastDelay, a.lastGain
	}

	a.lastDelay, a.lastGain = endDelay, endGain
}

// paramAt returns the value of a k-rate or a-rate parameter array at frame
// i. Arrays shorter than the block repeat their last value.
func paramAt(values []float64, i int, fallback float64) float64 {
	switch {
	case len(values) == 0:
		return fallback
	case i < len(values):
		return values[i]
	default:
		return values[len(values)-1]
	}
}
