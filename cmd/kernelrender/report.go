package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-patch/dsp/kernel"
	"github.com/cwbudde/algo-patch/dsp/spectrum"
)

const reportFFTSize = 16384

type signalStats struct {
	rms      float64
	peak     float64
	dominant float64
}

func measure(x []float64, sampleRate float64) signalStats {
	var s signalStats
	if len(x) == 0 {
		return s
	}

	s.rms = math.Sqrt(vecmath.DotProduct(x, x) / float64(len(x)))
	s.peak = vecmath.MaxAbs(x)

	if freq, err := spectrum.DominantFrequency(x, sampleRate, reportFFTSize); err == nil {
		s.dominant = freq
	}

	return s
}

func dB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}

// printReport writes one row per rendered kernel plus the dry input.
func printReport(w io.Writer, input [][]float64, results []result, sampleRate float64) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SIGNAL\tRMS dB\tPEAK dB\tDOMINANT Hz\tSTATUSES\tLATENCY")

	printRow := func(name string, x []float64, statuses []kernel.Status, dropped uint64) {
		st := measure(x, sampleRate)
		latency := "-"
		held := 0
		for _, s := range statuses {
			switch s.Type {
			case kernel.StatusLatency:
				latency = fmt.Sprintf("%d (%d)", s.Samples, s.Effective)
			case kernel.StatusHeldValue:
				held++
			}
		}

		counts := fmt.Sprintf("%d", len(statuses))
		if held > 0 {
			counts = fmt.Sprintf("%d held", held)
		}
		if dropped > 0 {
			counts += fmt.Sprintf(", %d dropped", dropped)
		}

		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.1f\t%s\t%s\n", name, dB(st.rms), dB(st.peak), st.dominant, counts, latency)
	}

	printRow("input", input[0], nil, 0)
	for _, r := range results {
		printRow(r.kind.String(), r.output[0], r.statuses, r.dropped)
	}

	tw.Flush()
}
