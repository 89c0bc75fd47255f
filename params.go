package clipper

import (
	"github.com/tphakala/go-audio-clipper/internal/oversample"
	"github.com/tphakala/go-audio-clipper/internal/params"
)

// Values is one complete parameter snapshot in plain units.
type Values = params.Values

// ParamID identifies a parameter.
type ParamID = params.ID

// ParamSpec describes a parameter's range, default and unit.
type ParamSpec = params.Spec

// ParamStore publishes parameter snapshots to the audio thread.
type ParamStore = params.Store

// Parameter identifiers.
const (
	ParamPreGain      = params.PreGain
	ParamDrive        = params.Drive
	ParamThreshold    = params.Threshold
	ParamHardness     = params.Hardness
	ParamPostGain     = params.PostGain
	ParamMix          = params.Mix
	ParamDCBlock      = params.DCBlock
	ParamOversampling = params.Oversampling
	ParamBypass       = params.Bypass
)

// Factor is the oversampling factor.
type Factor = oversample.Factor

// Oversampling factors.
const (
	Factor1x = oversample.Factor1x
	Factor2x = oversample.Factor2x
	Factor4x = oversample.Factor4x
)

// DefaultValues returns every parameter at its default.
func DefaultValues() Values {
	return params.Default()
}

// Params lists every parameter in host display order.
func Params() []ParamSpec {
	return params.Specs()
}

// LookupParam returns the parameter registered under key, such as "drive".
func LookupParam(key string) (ParamSpec, error) {
	return params.LookupKey(key)
}

func newParamStore(initial Values) *ParamStore {
	return params.NewStore(initial)
}
