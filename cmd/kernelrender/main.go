// Command kernelrender renders a test signal through one or more real-time
// effect kernels in fixed render quanta.
//
// Each kernel runs on its own node, driven by an audio goroutine and a
// control goroutine exactly as a real-time host would. The rendered audio
// is written as 16-bit WAV and summarised in a spectral report.
//
// Usage:
//
//	kernelrender [flags]
//
// Examples:
//
//	kernelrender -kernels pitch -semitones 7 -out fifth.wav
//	kernelrender -kernels allpass -delay 480.5 -gain 0.7 -signal impulse
//	kernelrender -kernels samplehold -hold-freq 20 -signal sine -freq 3
//	kernelrender -kernels pitch,allpass,samplehold -reset-at 1s
//	kernelrender -kernels pitch -out - | aplay
package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/cwbudde/algo-patch/dsp/core"
	"github.com/cwbudde/algo-patch/dsp/effects/pitch"
	"github.com/cwbudde/algo-patch/dsp/kernel"
	"github.com/cwbudde/algo-patch/dsp/signal"
)

type options struct {
	kernels     string
	signal      string
	freq        float64
	amplitude   float64
	duration    time.Duration
	sampleRate  int
	quantum     int
	channels    int
	seed        int64
	ratio       float64
	semitones   float64
	fftSize     int
	overlap     int
	delay       float64
	gain        float64
	maxDelay    int
	holdFreq    float64
	resetAt     time.Duration
	reconfigure time.Duration
	out         string
	play        bool
	quiet       bool
}

func main() {
	var o options
	flag.StringVar(&o.kernels, "kernels", "pitch", "comma-separated kernels: pitch, allpass, samplehold")
	flag.StringVar(&o.signal, "signal", "sine", "test signal: "+strings.Join(signal.Names, ", "))
	flag.Float64Var(&o.freq, "freq", 440, "test signal frequency in Hz")
	flag.Float64Var(&o.amplitude, "amp", 0.5, "test signal amplitude")
	flag.DurationVar(&o.duration, "duration", 2*time.Second, "rendered length")
	flag.IntVar(&o.sampleRate, "rate", 48000, "sample rate in Hz")
	flag.IntVar(&o.quantum, "quantum", core.RenderQuantum, "frames per render quantum")
	flag.IntVar(&o.channels, "channels", 1, "channel count")
	flag.Int64Var(&o.seed, "seed", 1, "noise seed")
	flag.Float64Var(&o.ratio, "ratio", 1, "pitch ratio")
	flag.Float64Var(&o.semitones, "semitones", 0, "pitch shift in semitones (overrides -ratio when non-zero)")
	flag.IntVar(&o.fftSize, "fft", pitch.DefaultFFTSize, "pitch shifter FFT size")
	flag.IntVar(&o.overlap, "overlap", pitch.DefaultOverlap, "pitch shifter overlap")
	flag.Float64Var(&o.delay, "delay", 2400, "allpass delay in samples")
	flag.Float64Var(&o.gain, "gain", 0.5, "allpass gain")
	flag.IntVar(&o.maxDelay, "max-delay", 0, "allpass maximum delay in samples (0 = 0.2 s)")
	flag.Float64Var(&o.holdFreq, "hold-freq", 1000, "sample-and-hold frequency in Hz")
	flag.DurationVar(&o.resetAt, "reset-at", 0, "post a reset message at this time (0 = never)")
	flag.DurationVar(&o.reconfigure, "reconfigure-at", 0, "post a configure message doubling the FFT size or max delay at this time (0 = never)")
	flag.StringVar(&o.out, "out", "", "output WAV path; several kernels get a suffix per kernel, - writes to stdout")
	flag.BoolVar(&o.play, "play", false, "play the first rendered kernel on the default audio device")
	flag.BoolVar(&o.quiet, "q", false, "suppress the report")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kernelrender [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a test signal through real-time effect kernels.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("kernelrender: ")

	if err := run(context.Background(), o); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, o options) error {
	if o.sampleRate <= 0 || o.channels <= 0 || o.quantum <= 0 {
		return errors.New("-rate, -channels and -quantum must be positive")
	}

	kinds, err := parseKinds(o.kernels)
	if err != nil {
		return err
	}

	if o.out == "-" {
		if len(kinds) != 1 {
			return errors.New("-out - needs exactly one kernel")
		}
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to write WAV data to a terminal")
		}
	}

	if o.play && !playbackAvailable {
		return errors.New("-play is not available in this build")
	}

	frames := int(o.duration.Seconds() * float64(o.sampleRate))
	input, err := generate(o.signal, o.freq, o.amplitude, float64(o.sampleRate), frames, o.channels, o.seed)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "kernelrender: ", 0)
	jobs := make([]job, 0, len(kinds))
	for _, kind := range kinds {
		jobs = append(jobs, newJob(kind, o, logger))
	}

	results, err := renderAll(ctx, jobs, input)
	if err != nil {
		return err
	}

	if o.out != "" {
		for _, r := range results {
			if err := writeResult(o.out, r, len(results) > 1, o.sampleRate); err != nil {
				return err
			}
		}
	}

	if !o.quiet {
		report := os.Stdout
		if o.out == "-" {
			report = os.Stderr
		}
		printReport(report, input, results, float64(o.sampleRate))
	}

	if o.play && len(results) > 0 {
		logger.Printf("playing %s", results[0].kind)
		if err := play(results[0].output, o.sampleRate); err != nil {
			return err
		}
	}

	return nil
}

func parseKinds(list string) ([]kernel.Kind, error) {
	var kinds []kernel.Kind
	seen := map[kernel.Kind]bool{}
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}

		k, err := kernel.ParseKind(name)
		if err != nil {
			return nil, err
		}

		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}

	if len(kinds) == 0 {
		return nil, errors.New("no kernels selected")
	}

	return kinds, nil
}

func newJob(kind kernel.Kind, o options, logger *log.Logger) job {
	cfg := kernel.Config{
		SampleRate:      float64(o.sampleRate),
		BlockSize:       o.quantum,
		MaxDelaySamples: o.maxDelay,
		FFTSize:         o.fftSize,
		Overlap:         o.overlap,
		MaxChannels:     o.channels,
	}

	ratio := o.ratio
	if o.semitones != 0 {
		ratio = pitch.RatioFromSemitones(o.semitones, 0)
	}

	params := kernel.Params{}
	switch kind {
	case kernel.KindPitchShifter:
		params.Set(kernel.ParamRatio, ratio)
	case kernel.KindAllpass:
		params.Set(kernel.ParamDelaySamples, o.delay)
		params.Set(kernel.ParamGain, o.gain)
	case kernel.KindSampleHold:
		params.Set(kernel.ParamFrequency, o.holdFreq)
	}

	j := job{kind: kind, cfg: cfg, params: params, logger: logger}

	at := func(d time.Duration) int {
		return int(math.Round(d.Seconds() * float64(o.sampleRate)))
	}

	if o.reconfigure > 0 {
		msg := kernel.Message{Type: kernel.MessageConfigure}
		switch kind {
		case kernel.KindPitchShifter:
			msg.FFTSize = 2 * o.fftSize
		case kernel.KindAllpass:
			maxDelay := o.maxDelay
			if maxDelay <= 0 {
				maxDelay = int(0.2 * float64(o.sampleRate))
			}
			msg.MaxDelaySamples = 2 * maxDelay
		}

		if kernel.Supports(kind, msg) {
			j.schedule = append(j.schedule, scheduledMessage{frame: at(o.reconfigure), msg: msg})
		} else {
			logger.Printf("%s does not take configure messages; skipping -reconfigure-at", kind)
		}
	}

	if o.resetAt > 0 {
		j.schedule = append(j.schedule, scheduledMessage{frame: at(o.resetAt), msg: kernel.Message{Type: kernel.MessageReset}})
	}

	slices.SortStableFunc(j.schedule, func(a, b scheduledMessage) int {
		return cmp.Compare(a.frame, b.frame)
	})

	return j
}

// outputPath inserts the kernel name before the extension when several
// kernels share one -out path.
func outputPath(out string, kind kernel.Kind, multi bool) string {
	if !multi {
		return out
	}

	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "-" + kind.String() + ext
}

func writeResult(out string, r result, multi bool, sampleRate int) error {
	if out == "-" {
		return writeWAV(os.Stdout, r.output, sampleRate)
	}

	path := outputPath(out, r.kind, multi)
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := writeWAV(f, r.output, sampleRate); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}
