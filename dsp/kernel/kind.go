package kernel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned for kernel names or kinds outside the
// supported set.
var ErrUnknownKind = errors.New("unknown kernel kind")

// Kind identifies a kernel implementation.
type Kind uint8

const (
	KindPitchShifter Kind = iota + 1
	KindAllpass
	KindSampleHold
)

// Kinds lists every supported kind in declaration order.
var Kinds = []Kind{KindPitchShifter, KindAllpass, KindSampleHold}

var kindNames = map[Kind]string{
	KindPitchShifter: "hq-pitch-shifter",
	KindAllpass:      "allpass-delay-processor",
	KindSampleHold:   "sample-hold-processor",
}

var kindAliases = map[string]Kind{
	"hq-pitch-shifter":        KindPitchShifter,
	"pitch-shifter":           KindPitchShifter,
	"pitch":                   KindPitchShifter,
	"allpass-delay-processor": KindAllpass,
	"allpass":                 KindAllpass,
	"sample-hold-processor":   KindSampleHold,
	"samplehold":              KindSampleHold,
	"sample-hold":             KindSampleHold,
}

// String returns the processor name of k.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind resolves a processor name or short alias, ignoring case and
// surrounding space.
func ParseKind(name string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("kernel: %w: %q", ErrUnknownKind, name)
	}

	return k, nil
}
