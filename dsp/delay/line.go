package delay

import (
	"fmt"

	"github.com/cwbudde/algo-patch/dsp/interp"
)

// Line is a circular delay line with fractional, linearly interpolated reads.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// WritePos returns the index the next Write will store to.
func (d *Line) WritePos() int {
	return d.writePos
}

// Write writes one sample and advances the write cursor.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. Delay 1 is the most recent write.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay) % size
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// ReadFractional reads delay samples behind the write cursor, interpolating
// linearly between the two nearest taps. The read index wraps in both
// directions, so any finite delay is accepted; callers clamp to the
// causal range [1, Len()-2].
func (d *Line) ReadFractional(delay float64) float64 {
	size := len(d.buffer)
	sizeF := float64(size)

	readIndex := float64(d.writePos) - delay
	for readIndex < 0 {
		readIndex += sizeF
	}
	for readIndex >= sizeF {
		readIndex -= sizeF
	}

	base, frac := interp.Split(readIndex)
	if base >= size {
		base = size - 1
	}

	next := base + 1
	if next == size {
		next = 0
	}

	return interp.Linear2(frac, d.buffer[base], d.buffer[next])
}

// Resize reallocates the line to size samples. As much of the old contents
// as fits is copied index-for-index and the write cursor is remapped modulo
// the new length. The result is glitch-minimising, not phase-continuous.
func (d *Line) Resize(size int) error {
	if size <= 0 {
		return fmt.Errorf("delay size must be > 0: %d", size)
	}
	if size == len(d.buffer) {
		return nil
	}

	buf := make([]float64, size)
	copy(buf, d.buffer)
	d.buffer = buf
	d.writePos %= size
	return nil
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
