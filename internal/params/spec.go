// Package params defines the clipper's parameter set and the lock-free
// store that carries values from control threads to the audio thread.
package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies a parameter.
type ID int

// Parameter identifiers, in host display order.
const (
	PreGain ID = iota
	Drive
	Threshold
	Hardness
	PostGain
	Mix
	DCBlock
	Oversampling
	Bypass

	numIDs
)

// Unit selects how a parameter is displayed and parsed.
type Unit int

// Units.
const (
	UnitDB Unit = iota
	UnitPercent
	UnitToggle
)

var (
	// ErrUnknownParam indicates an ID or key outside the parameter set.
	ErrUnknownParam = errors.New("unknown parameter")

	// ErrParse indicates text that cannot be read as a parameter value.
	ErrParse = errors.New("cannot parse parameter value")

	// ErrNotFinite indicates a NaN or infinite plain value.
	ErrNotFinite = errors.New("parameter value is not finite")
)

// Spec describes one parameter. Plain values are in the parameter's unit:
// decibels, a 0..1 fraction, or 0/1 for toggles. Normalized values map
// linearly onto [Min, Max].
type Spec struct {
	ID      ID
	Key     string
	Name    string
	Unit    Unit
	Min     float64
	Max     float64
	Default float64
}

var specs = [numIDs]Spec{
	PreGain:      {PreGain, "pre-gain", "Pre Gain", UnitDB, -18, 6, 0},
	Drive:        {Drive, "drive", "Drive", UnitDB, 0, 36, 0},
	Threshold:    {Threshold, "threshold", "Threshold", UnitDB, -30, 6, 0},
	Hardness:     {Hardness, "hardness", "Hardness", UnitPercent, 0, 1, 0.5},
	PostGain:     {PostGain, "post-gain", "Post Gain", UnitDB, -18, 6, 0},
	Mix:          {Mix, "mix", "Mix", UnitPercent, 0, 1, 1},
	DCBlock:      {DCBlock, "dc-block", "DC Block", UnitToggle, 0, 1, 0},
	Oversampling: {Oversampling, "oversampling", "Oversampling", UnitToggle, 0, 1, 1},
	Bypass:       {Bypass, "bypass", "Bypass", UnitToggle, 0, 1, 0},
}

// Specs returns all parameter specs in ID order.
func Specs() []Spec {
	out := make([]Spec, numIDs)
	copy(out, specs[:])
	return out
}

// Lookup returns the spec for id.
func Lookup(id ID) (Spec, error) {
	if id < 0 || id >= numIDs {
		return Spec{}, fmt.Errorf("%w: id %d", ErrUnknownParam, int(id))
	}
	return specs[id], nil
}

// LookupKey returns the spec whose Key is key.
func LookupKey(key string) (Spec, error) {
	for _, s := range specs {
		if s.Key == key {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: %q", ErrUnknownParam, key)
}

func (id ID) String() string {
	if id < 0 || id >= numIDs {
		return "ID(" + strconv.Itoa(int(id)) + ")"
	}
	return specs[id].Key
}

// Clamp limits a plain value to [Min, Max]. Toggles snap to 0 or 1 and
// NaN falls back to the default.
func (s Spec) Clamp(plain float64) float64 {
	if math.IsNaN(plain) {
		return s.Default
	}
	if s.Unit == UnitToggle {
		if plain >= 0.5 {
			return 1
		}
		return 0
	}
	return max(s.Min, min(s.Max, plain))
}

// Normalize maps a plain value to [0, 1].
func (s Spec) Normalize(plain float64) float64 {
	return (s.Clamp(plain) - s.Min) / (s.Max - s.Min)
}

// Denormalize maps a normalized value to the plain range.
func (s Spec) Denormalize(norm float64) float64 {
	norm = max(0, min(1, norm))
	return s.Clamp(s.Min + norm*(s.Max-s.Min))
}

// Format renders a plain value for display.
func (s Spec) Format(plain float64) string {
	switch s.Unit {
	case UnitDB:
		return strconv.FormatFloat(plain, 'f', 2, 64) + " dB"
	case UnitPercent:
		return strconv.FormatFloat(plain*100, 'f', 2, 64) + " %"
	default:
		if s.Clamp(plain) == 1 {
			return "On"
		}
		return "Off"
	}
}

// Parse reads text produced by Format, or a bare number in the display
// unit, and returns the clamped plain value.
func (s Spec) Parse(text string) (float64, error) {
	t := strings.TrimSpace(strings.ToLower(text))

	if s.Unit == UnitToggle {
		switch t {
		case "on", "true", "yes", "1":
			return 1, nil
		case "off", "false", "no", "0":
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %s %q", ErrParse, s.Key, text)
	}

	suffix := "db"
	if s.Unit == UnitPercent {
		suffix = "%"
	}
	t = strings.TrimSpace(strings.TrimSuffix(t, suffix))

	v, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %s %q", ErrParse, s.Key, text)
	}
	if s.Unit == UnitPercent {
		v /= 100
	}
	return s.Clamp(v), nil
}
