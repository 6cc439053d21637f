package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-patch/dsp/core"
)

// ErrUnsupportedMessage is returned for control messages a kernel kind
// does not handle.
var ErrUnsupportedMessage = errors.New("unsupported control message")

// Kernel is the per-quantum processing contract shared by all kinds.
//
// Process, Configure and Reset are called on the audio goroutine. Process
// never allocates or blocks; Configure may allocate.
type Kernel interface {
	Kind() Kind
	Configure(msg Message) error
	Process(q *Quantum)
	Reset()
}

// Quantum is one render callback: planar input and output buffers plus the
// parameter arrays for the block.
type Quantum struct {
	Inputs  [][]float64
	Outputs [][]float64
	Params  Params
}

// Frames returns the output block length.
func (q *Quantum) Frames() int {
	if len(q.Outputs) == 0 {
		return 0
	}

	return len(q.Outputs[0])
}

// Config holds construction options for every kind. Zero fields select the
// defaults of the underlying effect.
type Config struct {
	SampleRate float64
	// BlockSize is the host quantum, used for latency reports. Zero means
	// core.RenderQuantum.
	BlockSize int

	MaxDelaySamples     int
	DefaultDelaySamples int

	FFTSize     int
	Overlap     int
	MaxChannels int
}

func (c Config) blockSize() int {
	if c.BlockSize <= 0 {
		return core.RenderQuantum
	}

	return c.BlockSize
}

// New creates a kernel of kind. sink may be nil; it receives statuses on
// the goroutine that calls New and, later, on the audio goroutine.
func New(kind Kind, cfg Config, sink StatusSink) (Kernel, error) {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return nil, fmt.Errorf("kernel: sample rate must be > 0: %f", cfg.SampleRate)
	}

	switch kind {
	case KindPitchShifter:
		return newPitchKernel(cfg, sink)
	case KindAllpass:
		return newAllpassKernel(cfg)
	case KindSampleHold:
		return newSampleHoldKernel(cfg, sink)
	default:
		return nil, fmt.Errorf("kernel: %w: %s", ErrUnknownKind, kind)
	}
}

// Supports reports whether a kernel of kind handles msg.
func Supports(kind Kind, msg Message) bool {
	switch msg.Type {
	case MessageReset:
		_, ok := kindNames[kind]
		return ok
	case MessageConfigure:
		switch kind {
		case KindPitchShifter:
			return msg.MaxDelaySamples == 0
		case KindAllpass:
			return msg.FFTSize == 0 && msg.Overlap == 0 && (msg.MaxDelaySamples > 0 || msg.Channels > 0)
		default:
			return false
		}
	default:
		return false
	}
}

func checkMessage(kind Kind, msg Message) error {
	if !Supports(kind, msg) {
		return fmt.Errorf("kernel: %w: %s for %s", ErrUnsupportedMessage, msg.Type, kind)
	}

	return nil
}
