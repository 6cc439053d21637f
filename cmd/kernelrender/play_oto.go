//go:build !headless

package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

const playbackAvailable = true

// play sends planes to the default audio device and blocks until the
// player has drained.
func play(planes [][]float64, sampleRate int) error {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: len(planes),
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(bytes.NewReader(interleaveFloat32(planes)))
	player.Play()

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	if err := player.Close(); err != nil {
		return fmt.Errorf("close player: %w", err)
	}

	return nil
}
