package kernel

import "github.com/cwbudde/algo-patch/dsp/core"

// Parameter names understood by the kernels.
const (
	ParamDelaySamples = "delaySamples"
	ParamGain         = "gain"
	ParamRatio        = "ratio"
	ParamFrequency    = "frequency"
)

// Params maps a parameter name to its values for one quantum: a single
// value for block-rate automation or one value per frame.
type Params map[string][]float64

// Values returns the raw values of name, or nil.
func (p Params) Values(name string) []float64 {
	if p == nil {
		return nil
	}

	return p[name]
}

// Last returns the trailing value of name, or def if it is missing or not
// finite.
func (p Params) Last(name string, def float64) float64 {
	values := p.Values(name)
	if len(values) == 0 {
		return def
	}

	return core.Sanitize(values[len(values)-1], def)
}

// At returns the value of name at frame i. Block-rate arrays repeat their
// value; missing or non-finite values yield def.
func (p Params) At(name string, i int, def float64) float64 {
	values := p.Values(name)
	switch {
	case len(values) == 0:
		return def
	case i >= 0 && i < len(values):
		return core.Sanitize(values[i], def)
	default:
		return core.Sanitize(values[len(values)-1], def)
	}
}

// Set stores values under name and returns p, allocating the map if
// needed. It is meant for hosts building a quantum, not for Process.
func (p Params) Set(name string, values ...float64) Params {
	if p == nil {
		p = Params{}
	}

	p[name] = values

	return p
}
