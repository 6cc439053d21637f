package core_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-patch/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=44100 blockSize=128
}

func ExampleSanitize() {
	last := 0.5
	for _, v := range []float64{0.7, math.NaN(), 0.2} {
		last = core.Sanitize(v, last)
		fmt.Println(last)
	}

	// Output:
	// 0.7
	// 0.7
	// 0.2
}
