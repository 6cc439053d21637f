// Package allpass implements a per-channel feedback allpass filter with a
// continuously variable, fractional-sample delay.
//
// For delay d and gain g the filter computes
//
//	s[n] = x[n] - g·x_d[n]
//	y[n] = x_d[n] + g·s[n]
//
// where x_d is s read d samples back with linear interpolation. The
// magnitude response is unity at every frequency; only the phase varies.
package allpass
