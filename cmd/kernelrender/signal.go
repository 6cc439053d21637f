package main

import (
	"github.com/cwbudde/algo-patch/dsp/core"
	"github.com/cwbudde/algo-patch/dsp/signal"
)

// generate returns channels identical planes of a test signal.
func generate(name string, freq, amplitude, sampleRate float64, frames, channels int, seed int64) ([][]float64, error) {
	g := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(sampleRate)}, signal.WithSeed(seed))

	mono, err := g.Generate(name, freq, amplitude, frames)
	if err != nil {
		return nil, err
	}

	return signal.Replicate(mono, channels), nil
}
