// Package shaper implements the variable-hardness clipping curve.
//
// The curve is
//
//	analog(x)  = x / (1 + |x|^(1/s))^s,  s = 0.5 - 0.5*min(h, MaxHardness)
//	digital(x) = clamp(x, -1, 1)
//
// and the output cross-fades from analog to digital as h goes from
// MaxHardness to 1. Hardness 0 is a smooth x/sqrt(1+x²) saturation,
// hardness 1 a plain hard clip. Every setting is odd, non-decreasing and
// bounded by Ceiling.
package shaper

import (
	"math"
)

const (
	// Ceiling bounds the output magnitude for every input and hardness.
	Ceiling = 1.0

	// MaxHardness is where the power law stops tightening; above it the
	// curve fades into the digital clip.
	MaxHardness = 0.935

	// StabilityRange clamps the input before the power law.
	StabilityRange = 16.0

	fadeSpan = 1.0 - MaxHardness
)

// Curve holds the per-hardness constants of the clipping function so a
// block can be shaped without recomputing them per sample.
type Curve struct {
	hardness float32
	softness float64
	invSoft  float64
	fade     float64
	pureClip bool
	pureSoft bool
}

// NewCurve prepares the curve for hardness, which is clamped to [0, 1].
// NaN hardness is treated as 0.
func NewCurve(hardness float32) Curve {
	h := float64(hardness)
	if !(h > 0) {
		h = 0
	}
	h = min(h, 1)

	clamped := min(h, MaxHardness)
	fade := (h - clamped) / fadeSpan
	soft := 0.5 - 0.5*clamped

	return Curve{
		hardness: float32(h),
		softness: soft,
		invSoft:  1 / soft,
		fade:     fade,
		pureClip: fade >= 1,
		pureSoft: fade <= 0,
	}
}

// Hardness returns the clamped hardness the curve was built for.
func (c Curve) Hardness() float32 { return c.hardness }

// Apply shapes one sample. NaN maps to 0 and ±Inf to ±Ceiling.
func (c Curve) Apply(x float32) float32 {
	if x != x {
		return 0
	}

	xf := float64(x)
	if math.IsInf(xf, 0) {
		return float32(math.Copysign(Ceiling, xf))
	}
	xf = max(-StabilityRange, min(StabilityRange, xf))

	digital := max(-1, min(1, xf))
	if c.pureClip {
		return float32(digital)
	}

	analog := xf / math.Pow(1+math.Pow(math.Abs(xf), c.invSoft), c.softness)
	if c.pureSoft {
		return float32(analog)
	}

	return float32(analog*(1-c.fade) + digital*c.fade)
}

// ApplyBlock shapes src into dst, which may alias src.
func (c Curve) ApplyBlock(dst, src []float32) {
	for i, x := range src {
		dst[i] = c.Apply(x)
	}
}

// Apply shapes x with the given hardness.
func Apply(x, hardness float32) float32 {
	return NewCurve(hardness).Apply(x)
}
