package main

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

const wavHeaderSize = 44

var errNoChannels = errors.New("wav: no channels")

// writeWAV writes planar samples as interleaved 16-bit PCM.
func writeWAV(w io.Writer, planes [][]float64, sampleRate int) error {
	channels := len(planes)
	if channels == 0 {
		return errNoChannels
	}

	frames := len(planes[0])
	dataSize := uint32(frames * channels * 2)

	header := make([]byte, wavHeaderSize)
	writeWavHeader(header, dataSize, sampleRate, channels)
	if _, err := w.Write(header); err != nil {
		return err
	}

	buf := make([]byte, frames*channels*2)
	for i := range frames {
		for ch, plane := range planes {
			scaled := plane[i] * 32768.0
			if scaled > 32767.0 {
				scaled = 32767.0
			} else if scaled < -32768.0 {
				scaled = -32768.0
			}
			val := int16(math.RoundToEven(scaled))
			binary.LittleEndian.PutUint16(buf[(i*channels+ch)*2:], uint16(val))
		}
	}

	_, err := w.Write(buf)
	return err
}

func writeWavHeader(dst []byte, dataSize uint32, sampleRate, channels int) {
	copy(dst[0:4], "RIFF")
	binary.LittleEndian.PutUint32(dst[4:8], 36+dataSize)
	copy(dst[8:12], "WAVE")
	copy(dst[12:16], "fmt ")
	binary.LittleEndian.PutUint32(dst[16:20], 16)
	binary.LittleEndian.PutUint16(dst[20:22], 1)
	binary.LittleEndian.PutUint16(dst[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(dst[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(dst[28:32], uint32(sampleRate*channels*2))
	binary.LittleEndian.PutUint16(dst[32:34], uint16(channels*2))
	binary.LittleEndian.PutUint16(dst[34:36], 16)
	copy(dst[36:40], "data")
	binary.LittleEndian.PutUint32(dst[40:44], dataSize)
}

// interleaveFloat32 packs planar samples as interleaved little-endian
// float32 frames.
func interleaveFloat32(planes [][]float64) []byte {
	channels := len(planes)
	if channels == 0 {
		return nil
	}

	frames := len(planes[0])
	out := make([]byte, frames*channels*4)
	for i := range frames {
		for ch, plane := range planes {
			binary.LittleEndian.PutUint32(out[(i*channels+ch)*4:], math.Float32bits(float32(plane[i])))
		}
	}

	return out
}
