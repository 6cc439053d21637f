// Package samplehold freezes an input signal at a variable a-rate
// frequency and reports the held value through a throttled notifier.
package samplehold

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-patch/dsp/core"
)

const (
	// DefaultFrequency replaces a non-finite frequency.
	DefaultFrequency = 1000.0
	// MinFrequency is the lowest positive sampling frequency.
	MinFrequency = 0.1
	// MaxFrequency is the highest sampling frequency; it is further limited
	// to half the sample rate.
	MaxFrequency = 20000.0
	// NotifyRate is the highest rate, in Hz, at which held values are posted.
	NotifyRate = 30.0
)

// Notifier receives held values on the processing goroutine. It must not
// block.
type Notifier func(value float64)

// Option configures a SampleHold at construction.
type Option func(*SampleHold)

// WithNotifier sets the callback that receives held values.
func WithNotifier(fn Notifier) Option {
	return func(s *SampleHold) { s.notify = fn }
}

// SampleHold is a single-channel sample-and-hold.
type SampleHold struct {
	sampleRate     float64
	notifyInterval int
	notify         Notifier

	held      float64
	phase     float64
	countdown int
}

// New creates a sample-and-hold at sampleRate. The initial held value (0)
// is posted to the notifier before New returns.
func New(sampleRate float64, opts ...Option) (*SampleHold, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample-hold sample rate must be > 0: %f", sampleRate)
	}

	s := &SampleHold{
		sampleRate:     sampleRate,
		notifyInterval: max(1, int(math.Ceil(sampleRate/NotifyRate))),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.Reset()

	return s, nil
}

// SampleRate returns the sample rate in Hz.
func (s *SampleHold) SampleRate() float64 { return s.sampleRate }

// Held returns the current held value.
func (s *SampleHold) Held() float64 { return s.held }

// Phase returns the sampling phase accumulator.
func (s *SampleHold) Phase() float64 { return s.phase }

// NotifyInterval returns the minimum number of samples between two posts
// of a repeated value.
func (s *SampleHold) NotifyInterval() int { return s.notifyInterval }

// Reset clears the held value and arms an immediate capture on the next
// sample. The cleared value is posted.
func (s *SampleHold) Reset() {
	s.held = 0
	s.phase = 1
	s.countdown = 0
	s.post(s.held)
}

// SanitizeFrequency maps f into the supported range at sampleRate: NaN or
// infinite becomes DefaultFrequency, f <= 0 becomes 0 (sampling disabled)
// and other values are clamped to [MinFrequency, min(MaxFrequency,
// sampleRate/2)].
func SanitizeFrequency(f, sampleRate float64) float64 {
	if !core.IsFinite(f) {
		return DefaultFrequency
	}

	if f <= 0 {
		return 0
	}

	return core.Clamp(f, MinFrequency, math.Min(MaxFrequency, sampleRate*0.5))
}

// Process writes the held signal for input into output.
//
// freq holds one value per block or one value per frame; an empty array
// means DefaultFrequency. A nil input captures silence. Captured values
// that are not finite keep the previous held value.
func (s *SampleHold) Process(input, output, freq []float64) {
	held := s.held
	phase := s.phase
	countdown := s.countdown

	for i := range output {
		f := DefaultFrequency
		switch {
		case len(freq) == 1:
			f = freq[0]
		case i < len(freq):
			f = freq[i]
		case len(freq) > 0:
			f = freq[len(freq)-1]
		}

		phase += SanitizeFrequency(f, s.sampleRate) / s.sampleRate
		if phase >= 1 {
			source := 0.0
			if i < len(input) {
				source = input[i]
			}

			if core.IsFinite(source) {
				held = source
				// New and repeated values share the throttle.
				if countdown <= 0 {
					s.post(held)
					countdown = s.notifyInterval
				}
			}

			phase -= math.Floor(phase)
		}

		output[i] = held

		if countdown > 0 {
			countdown--
		}
	}

	s.held = held
	s.phase = phase
	s.countdown = countdown
}

func (s *SampleHold) post(value float64) {
	if s.notify != nil {
		s.notify(value)
	}
}
