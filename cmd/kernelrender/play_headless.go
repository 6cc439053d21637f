//go:build headless

package main

import "errors"

const playbackAvailable = false

func play([][]float64, int) error {
	return errors.New("playback is not available in headless builds")
}
