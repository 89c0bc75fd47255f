// Package oversample implements the two-stage polyphase half-band
// oversampler that surrounds the waveshaper.
//
// Stage 1 converts between the base rate and 2×, stage 2 between 2× and 4×.
// Decimation phases are fixed so that an up/down round trip delays the
// signal by a whole number of base-rate samples.
package oversample

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-clipper/internal/assert"
	"github.com/tphakala/go-audio-clipper/internal/filter"
)

// Factor is an oversampling ratio.
type Factor int

// Supported factors.
const (
	Factor1x Factor = 1
	Factor2x Factor = 2
	Factor4x Factor = 4
)

// Round-trip latency in base-rate samples.
//
// A stage delays by its centre index 2K-1 at its own rate, once up and once
// down. At 2× that is (2K1-1) base samples. At 4× the inner stage adds
// 2K2-1 samples at the 2× rate; stage 1 then decimates on the odd phase,
// which trims half a base sample and leaves an integer.
const (
	Latency1x = 0
	Latency2x = 2*filter.Stage1Order - 1
	Latency4x = Latency2x + (2*filter.Stage2Order-2)/2
)

var (
	// ErrInvalidBlockLength indicates mismatched source and destination lengths.
	ErrInvalidBlockLength = errors.New("invalid block length")

	// ErrInvalidFactor indicates an unsupported oversampling factor.
	ErrInvalidFactor = errors.New("invalid oversampling factor")
)

// Valid reports whether f is a supported factor.
func (f Factor) Valid() bool {
	return f == Factor1x || f == Factor2x || f == Factor4x
}

func (f Factor) String() string {
	return fmt.Sprintf("%dx", int(f))
}

// LatencyFor returns the round-trip latency of f in base-rate samples.
func LatencyFor(f Factor) int {
	switch f {
	case Factor2x:
		return Latency2x
	case Factor4x:
		return Latency4x
	default:
		return Latency1x
	}
}

// Engine holds the filter state of one channel. It is not safe for
// concurrent use.
type Engine struct {
	factor  Factor
	stage1  *FilterStage
	stage2  *FilterStage
	scratch []float32 // 2× rate intermediate for Upsample/Downsample at 4×
}

// NewEngine creates an engine for factor that can process blocks of up to
// maxBlock base-rate samples through Upsample and Downsample.
func NewEngine(factor Factor, maxBlock int) (*Engine, error) {
	if !factor.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, int(factor))
	}
	if maxBlock < 1 {
		return nil, fmt.Errorf("%w: max block %d", ErrInvalidBlockLength, maxBlock)
	}

	s1, err := NewFilterStage(filter.HalfBandStage1())
	if err != nil {
		return nil, fmt.Errorf("stage 1: %w", err)
	}
	s2, err := NewFilterStage(filter.HalfBandStage2())
	if err != nil {
		return nil, fmt.Errorf("stage 2: %w", err)
	}

	return &Engine{
		factor:  factor,
		stage1:  s1,
		stage2:  s2,
		scratch: make([]float32, 2*maxBlock),
	}, nil
}

// Factor returns the configured factor.
func (e *Engine) Factor() Factor { return e.factor }

// Latency returns the round-trip latency in base-rate samples.
func (e *Engine) Latency() int { return LatencyFor(e.factor) }

// MaxBlock returns the longest base-rate block Upsample accepts.
func (e *Engine) MaxBlock() int { return len(e.scratch) / 2 }

// StepUp2x interpolates src into dst, which must hold 2*len(src) samples.
func (e *Engine) StepUp2x(dst, src []float32) error {
	if len(dst) != 2*len(src) {
		return blockLengthError("up 2x", len(src), len(dst))
	}
	e.stage1.Interpolate(dst, src)
	return nil
}

// StepDown2x decimates src into dst, which must hold len(src)/2 samples.
func (e *Engine) StepDown2x(dst, src []float32) error {
	if len(src) != 2*len(dst) {
		return blockLengthError("down 2x", len(src), len(dst))
	}
	e.stage1.Decimate(dst, src, phaseEven)
	return nil
}

// StepUp4x interpolates src into dst (4*len(src) samples) through both
// stages. scratch holds the 2× intermediate and needs 2*len(src) samples.
func (e *Engine) StepUp4x(dst, src, scratch []float32) error {
	n := len(src)
	if len(dst) != 4*n || len(scratch) < 2*n {
		return blockLengthError("up 4x", n, len(dst))
	}
	mid := scratch[:2*n]
	e.stage1.Interpolate(mid, src)
	e.stage2.Interpolate(dst, mid)
	return nil
}

// StepDown4x decimates src into dst (len(src)/4 samples) through both
// stages. scratch needs len(src)/2 samples.
func (e *Engine) StepDown4x(dst, src, scratch []float32) error {
	n := len(dst)
	if len(src) != 4*n || len(scratch) < 2*n {
		return blockLengthError("down 4x", len(src), n)
	}
	mid := scratch[:2*n]
	e.stage2.Decimate(mid, src, phaseEven)
	e.stage1.Decimate(dst, mid, phaseOdd)
	return nil
}

// Upsample raises src to the engine's factor. dst must hold
// factor*len(src) samples; at 1× src is copied.
func (e *Engine) Upsample(dst, src []float32) error {
	switch e.factor {
	case Factor4x:
		return e.StepUp4x(dst, src, e.scratch)
	case Factor2x:
		return e.StepUp2x(dst, src)
	default:
		if len(dst) != len(src) {
			return blockLengthError("up 1x", len(src), len(dst))
		}
		copy(dst, src)
		return nil
	}
}

// Downsample is the inverse of Upsample.
func (e *Engine) Downsample(dst, src []float32) error {
	switch e.factor {
	case Factor4x:
		return e.StepDown4x(dst, src, e.scratch)
	case Factor2x:
		return e.StepDown2x(dst, src)
	default:
		if len(dst) != len(src) {
			return blockLengthError("down 1x", len(src), len(dst))
		}
		copy(dst, src)
		return nil
	}
}

// Reset zeroes the history of both stages.
func (e *Engine) Reset() {
	e.stage1.Reset()
	e.stage2.Reset()
}

func blockLengthError(op string, src, dst int) error {
	assert.Failf("oversample: %s with src %d dst %d", op, src, dst)
	return fmt.Errorf("%w: %s src %d dst %d", ErrInvalidBlockLength, op, src, dst)
}
