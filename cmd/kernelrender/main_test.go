package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"log"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-patch/dsp/kernel"
	"github.com/cwbudde/algo-patch/dsp/signal"
)

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds("pitch, allpass,,pitch-shifter,samplehold")
	if err != nil {
		t.Fatalf("parseKinds() error = %v", err)
	}

	want := []kernel.Kind{kernel.KindPitchShifter, kernel.KindAllpass, kernel.KindSampleHold}
	if len(kinds) != len(want) {
		t.Fatalf("parseKinds() = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("parseKinds()[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}

	if _, err := parseKinds(" , "); err == nil {
		t.Fatal("parseKinds() with no names succeeded")
	}

	if _, err := parseKinds("pitch,chorus"); err == nil {
		t.Fatal("parseKinds() with unknown name succeeded")
	}
}

func TestGenerate(t *testing.T) {
	for _, name := range signal.Names {
		planes, err := generate(name, 100, 0.5, 1000, 64, 2, 1)
		if err != nil {
			t.Fatalf("generate(%q) error = %v", name, err)
		}

		if len(planes) != 2 || len(planes[0]) != 64 {
			t.Fatalf("generate(%q) shape = %d×%d, want 2×64", name, len(planes), len(planes[0]))
		}

		for i := range planes[0] {
			if planes[0][i] != planes[1][i] {
				t.Fatalf("generate(%q) channels differ at %d", name, i)
			}
			if math.Abs(planes[0][i]) > 0.5 {
				t.Fatalf("generate(%q)[%d] = %v exceeds amplitude", name, i, planes[0][i])
			}
		}
	}

	if _, err := generate("square", 100, 0.5, 1000, 64, 1, 1); err == nil {
		t.Fatal("generate(square) succeeded")
	}
}

func TestWriteWAV(t *testing.T) {
	var buf bytes.Buffer
	planes := [][]float64{{0, 1, -1}, {0.5, 2, -0.5}}

	if err := writeWAV(&buf, planes, 44100); err != nil {
		t.Fatalf("writeWAV() error = %v", err)
	}

	b := buf.Bytes()
	if len(b) != wavHeaderSize+3*2*2 {
		t.Fatalf("len = %d, want %d", len(b), wavHeaderSize+12)
	}

	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
		t.Fatalf("bad chunk ids: %q", b[:40])
	}

	if got := binary.LittleEndian.Uint16(b[22:24]); got != 2 {
		t.Fatalf("channels = %d, want 2", got)
	}

	if got := binary.LittleEndian.Uint32(b[24:28]); got != 44100 {
		t.Fatalf("sample rate = %d, want 44100", got)
	}

	if got := binary.LittleEndian.Uint32(b[40:44]); got != 12 {
		t.Fatalf("data size = %d, want 12", got)
	}

	want := []int16{0, 16384, 32767, 32767, -32768, -16384}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(b[wavHeaderSize+2*i:])); got != w {
			t.Fatalf("sample %d = %d, want %d", i, got, w)
		}
	}

	if err := writeWAV(io.Discard, nil, 44100); err == nil {
		t.Fatal("writeWAV() without channels succeeded")
	}
}

func TestInterleaveFloat32(t *testing.T) {
	b := interleaveFloat32([][]float64{{1, 3}, {2, 4}})
	for i, want := range []float32{1, 2, 3, 4} {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:])); got != want {
			t.Fatalf("frame value %d = %v, want %v", i, got, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("out.wav", kernel.KindAllpass, false); got != "out.wav" {
		t.Fatalf("outputPath() = %q, want out.wav", got)
	}

	if got := outputPath("dir/out.wav", kernel.KindAllpass, true); got != "dir/out-allpass-delay-processor.wav" {
		t.Fatalf("outputPath() = %q", got)
	}
}

func TestRenderAppliesSchedule(t *testing.T) {
	o := options{
		sampleRate:  48000,
		quantum:     128,
		channels:    1,
		fftSize:     1024,
		overlap:     4,
		ratio:       1,
		resetAt:     10 * time.Millisecond,
		reconfigure: 5 * time.Millisecond,
	}
	logger := log.New(io.Discard, "", 0)

	j := newJob(kernel.KindPitchShifter, o, logger)
	if len(j.schedule) != 2 || j.schedule[0].msg.Type != kernel.MessageConfigure || j.schedule[1].msg.Type != kernel.MessageReset {
		t.Fatalf("schedule = %+v, want configure then reset", j.schedule)
	}

	input, err := generate("sine", 440, 0.5, 48000, 4800, 1, 1)
	if err != nil {
		t.Fatalf("generate() error = %v", err)
	}

	res, err := render(context.Background(), j, input)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}

	if len(res.output) != 1 || len(res.output[0]) != 4800 {
		t.Fatalf("output shape = %d×%d, want 1×4800", len(res.output), len(res.output[0]))
	}

	want := []kernel.Status{
		{Type: kernel.StatusLatency, Samples: 768, Effective: 896},
		{Type: kernel.StatusLatency, Samples: 1536, Effective: 1920},
		{Type: kernel.StatusLatency, Samples: 1536, Effective: 1920},
	}
	if len(res.statuses) != len(want) {
		t.Fatalf("statuses = %+v, want %+v", res.statuses, want)
	}
	for i := range want {
		if res.statuses[i] != want[i] {
			t.Fatalf("status %d = %+v, want %+v", i, res.statuses[i], want[i])
		}
	}
}

func TestRenderAllRunsEveryKernel(t *testing.T) {
	o := options{sampleRate: 48000, quantum: 128, channels: 2, fftSize: 512, overlap: 4, ratio: 1.5, delay: 100, gain: 0.5, holdFreq: 500}
	logger := log.New(io.Discard, "", 0)

	var jobs []job
	for _, kind := range kernel.Kinds {
		jobs = append(jobs, newJob(kind, o, logger))
	}

	input, err := generate("noise", 0, 0.5, 48000, 2000, 2, 3)
	if err != nil {
		t.Fatalf("generate() error = %v", err)
	}

	results, err := renderAll(context.Background(), jobs, input)
	if err != nil {
		t.Fatalf("renderAll() error = %v", err)
	}

	for i, r := range results {
		if r.kind != kernel.Kinds[i] {
			t.Fatalf("result %d kind = %v, want %v", i, r.kind, kernel.Kinds[i])
		}
		if len(r.output) != 2 || len(r.output[1]) != 2000 {
			t.Fatalf("%s output shape = %d×%d", r.kind, len(r.output), len(r.output[1]))
		}
	}

	var report bytes.Buffer
	printReport(&report, input, results, 48000)
	if !bytes.Contains(report.Bytes(), []byte("sample-hold-processor")) {
		t.Fatalf("report missing kernel rows:\n%s", report.String())
	}
}
