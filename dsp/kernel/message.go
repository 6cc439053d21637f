package kernel

import "fmt"

// MessageType identifies a control message.
type MessageType uint8

const (
	// MessageReset zeroes all kernel state.
	MessageReset MessageType = iota + 1
	// MessageConfigure resizes or reconfigures a kernel in place.
	MessageConfigure
)

func (t MessageType) String() string {
	switch t {
	case MessageReset:
		return "reset"
	case MessageConfigure:
		return "configure"
	default:
		return fmt.Sprintf("MessageType(%d)", uint8(t))
	}
}

// Message is a control-to-audio request. Size fields left at zero keep the
// current value.
type Message struct {
	Type MessageType

	// MaxDelaySamples resizes the allpass delay lines.
	MaxDelaySamples int
	// FFTSize and Overlap reconfigure the pitch shifter.
	FFTSize int
	Overlap int
	// Channels grows the number of channel streams of the pitch shifter
	// and the allpass.
	Channels int
}

// StatusType identifies an audio-to-control report.
type StatusType uint8

const (
	// StatusLatency reports the pitch shifter latency in samples.
	StatusLatency StatusType = iota + 1
	// StatusHeldValue reports the sample-and-hold value.
	StatusHeldValue
)

func (t StatusType) String() string {
	switch t {
	case StatusLatency:
		return "latency"
	case StatusHeldValue:
		return "held"
	default:
		return fmt.Sprintf("StatusType(%d)", uint8(t))
	}
}

// Status is an audio-to-control report.
type Status struct {
	Type StatusType

	// Samples is FFTSize-HopSize for StatusLatency.
	Samples int
	// Effective is the delay observed when the kernel is driven in blocks
	// of the configured size; it exceeds Samples for blocks shorter than
	// one hop.
	Effective int
	// Value is the held value for StatusHeldValue.
	Value float64
}

// StatusSink receives statuses on the audio goroutine. It must not block.
type StatusSink func(Status)

func (s StatusSink) post(st Status) {
	if s != nil {
		s(st)
	}
}
