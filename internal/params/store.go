package params

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Values is one complete parameter snapshot in plain units.
type Values struct {
	PreGainDB    float64
	DriveDB      float64
	ThresholdDB  float64
	Hardness     float64
	PostGainDB   float64
	Mix          float64
	DCBlock      bool
	Oversampling bool
	Bypass       bool
}

// Default returns every parameter at its default.
func Default() Values {
	var v Values
	for _, s := range specs {
		v.set(s.ID, s.Default)
	}
	return v
}

// Get returns the plain value of id; toggles read as 0 or 1.
func (v *Values) Get(id ID) float64 {
	switch id {
	case PreGain:
		return v.PreGainDB
	case Drive:
		return v.DriveDB
	case Threshold:
		return v.ThresholdDB
	case Hardness:
		return v.Hardness
	case PostGain:
		return v.PostGainDB
	case Mix:
		return v.Mix
	case DCBlock:
		return boolValue(v.DCBlock)
	case Oversampling:
		return boolValue(v.Oversampling)
	case Bypass:
		return boolValue(v.Bypass)
	}
	return 0
}

// set stores a clamped plain value; id must be valid.
func (v *Values) set(id ID, plain float64) {
	plain = specs[id].Clamp(plain)
	switch id {
	case PreGain:
		v.PreGainDB = plain
	case Drive:
		v.DriveDB = plain
	case Threshold:
		v.ThresholdDB = plain
	case Hardness:
		v.Hardness = plain
	case PostGain:
		v.PostGainDB = plain
	case Mix:
		v.Mix = plain
	case DCBlock:
		v.DCBlock = plain == 1
	case Oversampling:
		v.Oversampling = plain == 1
	case Bypass:
		v.Bypass = plain == 1
	}
}

// Clamped returns v with every field limited to its range.
func (v Values) Clamped() Values {
	for id := range numIDs {
		if s := specs[id]; s.Unit != UnitToggle {
			v.set(id, v.Get(id))
		}
	}
	return v
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Store publishes parameter snapshots. Writers build a new Values and swap
// it in with one atomic store; the audio thread reads the current snapshot
// with one atomic load and never blocks. Writers serialize on a mutex so
// concurrent Sets do not lose updates.
type Store struct {
	cur atomic.Pointer[Values]
	mu  sync.Mutex
}

// NewStore creates a store holding initial, clamped to range.
func NewStore(initial Values) *Store {
	s := &Store{}
	v := initial.Clamped()
	s.cur.Store(&v)
	return s
}

// Load returns the current snapshot. The result must not be modified.
func (s *Store) Load() *Values {
	return s.cur.Load()
}

// Set changes one parameter by plain value.
func (s *Store) Set(id ID, plain float64) error {
	if _, err := Lookup(id); err != nil {
		return err
	}
	if math.IsNaN(plain) || math.IsInf(plain, 0) {
		return fmt.Errorf("%w: %s = %g", ErrNotFinite, id, plain)
	}
	s.Update(func(v *Values) { v.set(id, plain) })
	return nil
}

// SetNormalized changes one parameter by normalized [0, 1] value.
func (s *Store) SetNormalized(id ID, norm float64) error {
	spec, err := Lookup(id)
	if err != nil {
		return err
	}
	if math.IsNaN(norm) {
		return fmt.Errorf("%w: %s normalized NaN", ErrNotFinite, id)
	}
	return s.Set(id, spec.Denormalize(norm))
}

// Normalized returns the current normalized value of id.
func (s *Store) Normalized(id ID) (float64, error) {
	spec, err := Lookup(id)
	if err != nil {
		return 0, err
	}
	return spec.Normalize(s.Load().Get(id)), nil
}

// Update applies fn to a copy of the current values and publishes the
// clamped result.
func (s *Store) Update(fn func(*Values)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.cur.Load()
	fn(&next)
	next = next.Clamped()
	s.cur.Store(&next)
}

// Replace publishes v, clamped to range.
func (s *Store) Replace(v Values) {
	s.Update(func(cur *Values) { *cur = v })
}
