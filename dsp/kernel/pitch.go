package kernel

import (
	"fmt"

	"github.com/cwbudde/algo-patch/dsp/effects/pitch"
)

type pitchKernel struct {
	shifter   *pitch.Shifter
	blockSize int
	sink      StatusSink
}

func newPitchKernel(cfg Config, sink StatusSink) (*pitchKernel, error) {
	var opts []pitch.Option
	if cfg.FFTSize > 0 {
		opts = append(opts, pitch.WithFFTSize(cfg.FFTSize))
	}
	if cfg.Overlap > 0 {
		opts = append(opts, pitch.WithOverlap(cfg.Overlap))
	}
	if cfg.MaxChannels > 0 {
		opts = append(opts, pitch.WithMaxChannels(cfg.MaxChannels))
	}

	shifter, err := pitch.New(cfg.SampleRate, opts...)
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}

	k := &pitchKernel{shifter: shifter, blockSize: cfg.blockSize(), sink: sink}
	k.notifyLatency()

	return k, nil
}

func (k *pitchKernel) Kind() Kind { return KindPitchShifter }

func (k *pitchKernel) Configure(msg Message) error {
	if msg.Type == MessageReset {
		k.Reset()
		return nil
	}

	if err := checkMessage(KindPitchShifter, msg); err != nil {
		return err
	}

	if err := k.shifter.EnsureChannels(msg.Channels); err != nil {
		return fmt.Errorf("kernel: %w", err)
	}

	if msg.FFTSize > 0 || msg.Overlap > 0 {
		if err := k.shifter.Configure(msg.FFTSize, msg.Overlap); err != nil {
			return fmt.Errorf("kernel: %w", err)
		}
	}

	k.notifyLatency()

	return nil
}

func (k *pitchKernel) Process(q *Quantum) {
	k.shifter.Process(q.Inputs, q.Outputs, q.Params.Values(ParamRatio))
}

func (k *pitchKernel) Reset() {
	k.shifter.Reset()
	k.notifyLatency()
}

func (k *pitchKernel) notifyLatency() {
	k.sink.post(Status{
		Type:      StatusLatency,
		Samples:   k.shifter.LatencySamples(),
		Effective: k.shifter.BlockLatency(k.blockSize),
	})
}
