package kernel_test

import (
	"fmt"

	"github.com/cwbudde/algo-patch/dsp/kernel"
)

func ExampleNode() {
	n, err := kernel.NewNode(kernel.KindPitchShifter, kernel.Config{SampleRate: 48000, MaxChannels: 1})
	if err != nil {
		panic(err)
	}

	_ = n.Post(kernel.Message{Type: kernel.MessageConfigure, FFTSize: 1024, Overlap: 4})

	q := &kernel.Quantum{
		Inputs:  [][]float64{make([]float64, 128)},
		Outputs: [][]float64{make([]float64, 128)},
		Params:  kernel.Params{kernel.ParamRatio: {1.5}},
	}
	n.Render(q)

	n.Drain(func(st kernel.Status) {
		fmt.Printf("%s: %d samples (%d at 128 frames)\n", st.Type, st.Samples, st.Effective)
	})
	// Output:
	// latency: 1536 samples (1920 at 128 frames)
	// latency: 768 samples (896 at 128 frames)
}

func ExampleParseKind() {
	k, err := kernel.ParseKind("allpass")
	if err != nil {
		panic(err)
	}

	fmt.Println(k)
	// Output: allpass-delay-processor
}
