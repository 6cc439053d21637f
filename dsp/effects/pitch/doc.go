// Package pitch provides a streaming phase-vocoder pitch shifter for
// block-synchronous real-time hosts.
//
// Included types:
//   - Channel: single-channel analysis/resynthesis stream with input and
//     output rings that decouple the host quantum from the FFT size.
//   - Shifter: multi-channel processor with k-rate ratio handling,
//     reconfiguration and latency reporting.
//
// Neither type allocates, locks or blocks inside its per-block methods.
// Configure and Reset allocate or clear state and must be called between
// blocks on the processing goroutine.
package pitch
