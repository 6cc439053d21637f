package kernel

import (
	"fmt"

	"github.com/cwbudde/algo-patch/dsp/effects/allpass"
)

type allpassKernel struct {
	fx *allpass.Allpass
}

func newAllpassKernel(cfg Config) (*allpassKernel, error) {
	var opts []allpass.Option
	if cfg.MaxDelaySamples > 0 {
		opts = append(opts, allpass.WithMaxDelaySamples(cfg.MaxDelaySamples))
	}
	if cfg.DefaultDelaySamples > 0 {
		opts = append(opts, allpass.WithDefaultDelaySamples(cfg.DefaultDelaySamples))
	}
	if cfg.MaxChannels > 0 {
		opts = append(opts, allpass.WithChannels(cfg.MaxChannels))
	}

	fx, err := allpass.New(cfg.SampleRate, opts...)
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}

	return &allpassKernel{fx: fx}, nil
}

func (k *allpassKernel) Kind() Kind { return KindAllpass }

func (k *allpassKernel) Configure(msg Message) error {
	if msg.Type == MessageReset {
		k.Reset()
		return nil
	}

	if err := checkMessage(KindAllpass, msg); err != nil {
		return err
	}

	if err := k.fx.EnsureChannels(msg.Channels); err != nil {
		return fmt.Errorf("kernel: %w", err)
	}

	if msg.MaxDelaySamples > 0 {
		if err := k.fx.Configure(msg.MaxDelaySamples); err != nil {
			return fmt.Errorf("kernel: %w", err)
		}
	}

	return nil
}

func (k *allpassKernel) Process(q *Quantum) {
	k.fx.Process(q.Inputs, q.Outputs, q.Params.Values(ParamDelaySamples), q.Params.Values(ParamGain))
}

func (k *allpassKernel) Reset() { k.fx.Reset() }
