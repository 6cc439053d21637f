package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Planes allocates channels planar buffers of frames samples each.
func Planes(channels, frames int) [][]float64 {
	if channels <= 0 {
		return nil
	}
	if frames < 0 {
		frames = 0
	}

	backing := make([]float64, channels*frames)
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = backing[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}
	return out
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// ZeroPlanes clears every channel in bufs.
func ZeroPlanes(bufs [][]float64) {
	for _, b := range bufs {
		Zero(b)
	}
}
