package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-patch/dsp/core"
	"github.com/cwbudde/algo-patch/dsp/fft"
	"github.com/cwbudde/algo-patch/dsp/window"
)

// Channel is the streaming state of one pitch-shifted channel.
//
// Input samples are queued in a ring until a full analysis frame is
// available; every frame retires one hop of input and appends one hop of
// resynthesised output to a second ring, from which blocks are drained.
// Both rings hold 4×FFT size samples and drop their oldest sample on
// overflow. After a reset the output ring starts with FFTSize-HopSize
// samples of silence, which is the stream latency.
type Channel struct {
	sampleRate float64
	fftSize    int
	overlap    int
	hopSize    int
	halfSize   int
	freqPerBin float64

	engine      *fft.Radix2
	window      []float64
	windowScale float64

	expectedPhase []float64
	analysisPhase []float64
	synthPhase    []float64
	synthMag      []float64
	synthPhaseInc []float64
	synthCount    []int

	inputRing  []float64
	inWrite    int
	inRead     int
	inCount    int
	outputRing []float64
	outWrite   int
	outRead    int
	outCount   int

	re        []float64
	im        []float64
	synthesis []float64

	ratioState float64
}

// NewChannel creates a channel stream. fftSize and overlap are sanitised
// with [SanitizeFFTSize] and [SanitizeOverlap].
func NewChannel(sampleRate float64, fftSize, overlap int) (*Channel, error) {
	if !isFinitePositive(sampleRate) {
		return nil, fmt.Errorf("pitch channel sample rate must be positive and finite: %f", sampleRate)
	}

	c := &Channel{sampleRate: sampleRate, ratioState: DefaultRatio}
	if err := c.Configure(fftSize, overlap); err != nil {
		return nil, err
	}

	return c, nil
}

// Configure reallocates all stream state for a new FFT size and overlap and
// resets the channel.
func (c *Channel) Configure(fftSize, overlap int) error {
	size := SanitizeFFTSize(fftSize)
	slices := SanitizeOverlap(overlap, size)

	engine, err := fft.New(size)
	if err != nil {
		return fmt.Errorf("pitch channel: %w", err)
	}

	c.engine = engine
	c.fftSize = size
	c.overlap = slices
	c.hopSize = max(1, size/slices)
	c.halfSize = size >> 1
	c.freqPerBin = c.sampleRate / float64(size)

	c.window = window.Generate(window.TypeHann, size, window.WithPeriodic())
	c.windowScale = 1
	if energy := window.Energy(c.window); energy > 0 {
		c.windowScale = float64(c.hopSize) / energy
	}

	bins := c.halfSize + 1
	c.expectedPhase = make([]float64, bins)
	base := 2 * math.Pi * float64(c.hopSize) / float64(size)
	for k := range c.expectedPhase {
		c.expectedPhase[k] = base * float64(k)
	}

	c.analysisPhase = make([]float64, bins)
	c.synthPhase = make([]float64, bins)
	c.synthMag = make([]float64, bins)
	c.synthPhaseInc = make([]float64, bins)
	c.synthCount = make([]int, bins)

	c.inputRing = make([]float64, size*ringFactor)
	c.outputRing = make([]float64, size*ringFactor)

	c.re = make([]float64, size)
	c.im = make([]float64, size)
	c.synthesis = make([]float64, size)

	c.Reset()

	return nil
}

// Reset clears rings, phase tracking and the smoothed ratio.
func (c *Channel) Reset() {
	c.inWrite, c.inRead, c.inCount = 0, 0, 0
	c.outRead = 0
	c.outWrite = c.fftSize - c.hopSize
	c.outCount = c.outWrite

	core.Zero(c.inputRing)
	core.Zero(c.outputRing)
	core.Zero(c.analysisPhase)
	core.Zero(c.synthPhase)
	core.Zero(c.synthMag)
	core.Zero(c.synthPhaseInc)
	core.Zero(c.re)
	core.Zero(c.im)
	core.Zero(c.synthesis)

	for k := range c.synthCount {
		c.synthCount[k] = 0
	}

	c.ratioState = DefaultRatio
}

// FFTSize returns the analysis window length.
func (c *Channel) FFTSize() int { return c.fftSize }

// Overlap returns the number of analysis windows per FFT size.
func (c *Channel) Overlap() int { return c.overlap }

// HopSize returns the number of samples between analysis frames.
func (c *Channel) HopSize() int { return c.hopSize }

// LatencySamples returns FFTSize-HopSize.
func (c *Channel) LatencySamples() int { return max(0, c.fftSize-c.hopSize) }

// Ratio returns the smoothed pitch ratio currently in effect.
func (c *Channel) Ratio() float64 { return c.ratioState }

// Buffered returns the number of queued input samples.
func (c *Channel) Buffered() int { return c.inCount }

// Capacity returns the ring capacity in samples.
func (c *Channel) Capacity() int { return len(c.inputRing) }

// ProcessBlock pitch-shifts input into output by the requested ratio.
//
// A nil input is treated as silence. Non-finite input samples are replaced
// by zero. The ratio is smoothed toward ratio once per call; a non-finite
// or non-positive ratio holds the current smoothed value.
func (c *Channel) ProcessBlock(input, output []float64, ratio float64) {
	effective := c.smoothRatio(ratio)

	for i := range len(output) {
		sample := 0.0
		if i < len(input) {
			sample = input[i]
			if !core.IsFinite(sample) {
				sample = 0
			}
		}
		c.pushInput(sample)
	}

	for c.inCount >= c.fftSize {
		c.processFrame(effective)
	}

	for i := range output {
		output[i] = c.popOutput()
	}
}

func (c *Channel) smoothRatio(target float64) float64 {
	desired := sanitizeRatio(target, c.ratioState)
	c.ratioState += (desired - c.ratioState) * RatioSmoothing
	c.ratioState = core.Clamp(c.ratioState, MinRatio, MaxRatio)

	return c.ratioState
}

func (c *Channel) pushInput(sample float64) {
	size := len(c.inputRing)
	if c.inCount >= size {
		c.inRead++
		if c.inRead == size {
			c.inRead = 0
		}
		c.inCount--
	}

	c.inputRing[c.inWrite] = sample
	c.inWrite++
	if c.inWrite == size {
		c.inWrite = 0
	}
	c.inCount++
}

func (c *Channel) pushOutput(value float64) {
	size := len(c.outputRing)
	if c.outCount >= size {
		c.outRead++
		if c.outRead == size {
			c.outRead = 0
		}
		c.outCount--
	}

	c.outputRing[c.outWrite] = value
	c.outWrite++
	if c.outWrite == size {
		c.outWrite = 0
	}
	c.outCount++
}

func (c *Channel) popOutput() float64 {
	if c.outCount == 0 {
		return 0
	}

	value := c.outputRing[c.outRead]
	c.outRead++
	if c.outRead == len(c.outputRing) {
		c.outRead = 0
	}
	c.outCount--

	return value
}

// processFrame runs one analysis/resynthesis frame over the oldest FFTSize
// queued samples.
func (c *Channel) processFrame(ratio float64) {
	n := c.fftSize
	hop := c.hopSize
	half := c.halfSize
	twoPi := 2 * math.Pi
	hopF := float64(hop)

	head := copy(c.re, c.inputRing[c.inRead:])
	if head < n {
		copy(c.re[head:], c.inputRing)
	}
	vecmath.MulBlockInPlace(c.re, c.window)
	core.Zero(c.im)

	c.engine.Forward(c.re, c.im)

	for k := 0; k <= half; k++ {
		re := c.re[k]
		im := c.im[k]
		mag := binMagnitude(re, im)
		phase := math.Atan2(im, re)

		delta := wrapPhase(phase - c.analysisPhase[k] - c.expectedPhase[k])
		c.analysisPhase[k] = phase

		trueFreqBin := float64(k) + delta*float64(n)/(twoPi*hopF)
		shiftedHz := trueFreqBin * c.freqPerBin * ratio

		// Destinations follow the source bin centre so a partial's main
		// lobe keeps its shape; the shifted frequency drives the phase.
		target := int(math.Round(float64(k) * ratio))
		if target < 0 || target > half {
			continue
		}

		c.synthMag[target] += mag
		c.synthPhaseInc[target] += twoPi * shiftedHz * hopF / c.sampleRate
		c.synthCount[target]++
	}

	for k := 0; k <= half; k++ {
		if count := c.synthCount[k]; count > 0 {
			mag := c.synthMag[k] / float64(count)
			inc := c.synthPhaseInc[k] / float64(count)

			p := c.synthPhase[k] + inc
			if p > twoPi || p < -twoPi {
				p = math.Mod(p, twoPi)
			}
			c.synthPhase[k] = p

			c.re[k] = mag * math.Cos(p)
			c.im[k] = mag * math.Sin(p)
		} else {
			c.re[k] = 0
			c.im[k] = 0
		}

		c.synthMag[k] = 0
		c.synthPhaseInc[k] = 0
		c.synthCount[k] = 0
	}

	for k := 1; k < half; k++ {
		c.re[n-k] = c.re[k]
		c.im[n-k] = -c.im[k]
	}
	c.im[0] = 0
	c.im[half] = 0

	c.engine.Inverse(c.re, c.im)

	vecmath.MulBlockInPlace(c.re, c.window)
	vecmath.ScaleBlockInPlace(c.re, c.windowScale)
	vecmath.AddBlockInPlace(c.synthesis, c.re)

	for i := range hop {
		c.pushOutput(c.synthesis[i])
	}

	copy(c.synthesis, c.synthesis[hop:])
	core.Zero(c.synthesis[n-hop:])

	c.inRead = (c.inRead + hop) % len(c.inputRing)
	c.inCount = max(0, c.inCount-hop)
}

func isFinitePositive(v float64) bool {
	return v > 0 && core.IsFinite(v)
}
