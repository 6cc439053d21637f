// Package kernel hosts the real-time effect kernels behind one uniform
// contract.
//
// A Kernel is created for a closed set of kinds (pitch shifter, fractional
// delay allpass, sample-and-hold) and driven once per render quantum.
// Control messages and status reports cross between the control goroutine
// and the audio goroutine through a Node, which owns two lock-free queues
// and applies pending messages only at quantum boundaries.
package kernel
