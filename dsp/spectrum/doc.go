// Package spectrum provides spectrum-domain analysis helpers.
//
// It measures processor output rather than producing it: magnitude and
// phase extraction over complex bins, and an [Analyzer] that windows a real
// frame, transforms it with an algo-fft plan and locates its dominant peak.
// Kernel tests and the render CLI use it to verify transposition and
// magnitude flatness.
package spectrum
