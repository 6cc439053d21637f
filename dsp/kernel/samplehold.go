package kernel

import (
	"fmt"

	"github.com/cwbudde/algo-patch/dsp/core"
	"github.com/cwbudde/algo-patch/dsp/effects/samplehold"
)

// sampleHoldKernel is single channel: it reads the first input channel and
// writes the first output channel, silencing any others.
type sampleHoldKernel struct {
	sh *samplehold.SampleHold
}

func newSampleHoldKernel(cfg Config, sink StatusSink) (*sampleHoldKernel, error) {
	notify := func(v float64) {
		sink.post(Status{Type: StatusHeldValue, Value: v})
	}

	sh, err := samplehold.New(cfg.SampleRate, samplehold.WithNotifier(notify))
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}

	return &sampleHoldKernel{sh: sh}, nil
}

func (k *sampleHoldKernel) Kind() Kind { return KindSampleHold }

func (k *sampleHoldKernel) Configure(msg Message) error {
	if msg.Type == MessageReset {
		k.Reset()
		return nil
	}

	return checkMessage(KindSampleHold, msg)
}

func (k *sampleHoldKernel) Process(q *Quantum) {
	if len(q.Outputs) == 0 {
		return
	}

	var in []float64
	if len(q.Inputs) > 0 {
		in = q.Inputs[0]
	}

	k.sh.Process(in, q.Outputs[0], q.Params.Values(ParamFrequency))

	for _, out := range q.Outputs[1:] {
		core.Zero(out)
	}
}

func (k *sampleHoldKernel) Reset() { k.sh.Reset() }
