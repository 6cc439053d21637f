// Package signal generates deterministic test signals for driving kernels
// offline.
package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-patch/dsp/core"
)

// ErrUnknownSignal is returned by Generate for unsupported signal names.
var ErrUnknownSignal = errors.New("unknown signal")

// Names lists the signals understood by Generate.
var Names = []string{"sine", "noise", "saw", "impulse"}

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a signal generator.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave starting at phase 0.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude).
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Saw generates a rising sawtooth in [-amplitude, amplitude). Held through
// a sample-and-hold it shows the capture instants as a staircase.
func (g *Generator) Saw(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("saw samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	inc := freqHz / g.cfg.SampleRate
	phase := 0.0
	for i := range out {
		out[i] = amplitude * (2*phase - 1)
		phase += inc
		phase -= math.Floor(phase)
	}
	return out, nil
}

// Impulse generates a single sample of amplitude followed by silence.
func (g *Generator) Impulse(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	out[0] = amplitude
	return out, nil
}

// Generate dispatches to the generator named by name (see Names).
func (g *Generator) Generate(name string, freqHz, amplitude float64, samples int) ([]float64, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine":
		return g.Sine(freqHz, amplitude, samples)
	case "noise":
		return g.WhiteNoise(amplitude, samples)
	case "saw":
		return g.Saw(freqHz, amplitude, samples)
	case "impulse":
		return g.Impulse(amplitude, samples)
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownSignal, name, strings.Join(Names, ", "))
	}
}

// Replicate returns channels planes, each a copy of mono.
func Replicate(mono []float64, channels int) [][]float64 {
	planes := core.Planes(channels, len(mono))
	for _, p := range planes {
		copy(p, mono)
	}
	return planes
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	out := make([]float64, len(data))
	maxAbs := vecmath.MaxAbs(data)
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	copy(out, data)
	vecmath.ScaleBlockInPlace(out, targetPeak/maxAbs)
	return out, nil
}
