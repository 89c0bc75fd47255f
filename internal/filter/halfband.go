package filter

import (
	"errors"
	"fmt"
	"math"
	"sync"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/tphakala/simd/f64"

	"github.com/tphakala/go-audio-clipper/internal/mathutil"
)

// Stage parameters. A stage with order K has 4K-1 taps, 2K of which are
// non-zero besides the centre.
const (
	Stage1Order       = 20
	Stage1Attenuation = 100.0

	Stage2Order       = 8
	Stage2Attenuation = 80.0

	minOrder = 1
	maxOrder = 256

	// The branch taps of a half-band sum to half the DC gain; the centre
	// tap supplies the other half.
	centerTap = 0.5
)

// ErrInvalidDesign indicates half-band parameters that cannot be realised.
var ErrInvalidDesign = errors.New("invalid half-band design")

// HalfBand is a linear-phase half-band low-pass filter with cutoff at a
// quarter of its sample rate.
//
// Taps holds the full impulse response. Every tap at an even, non-zero
// distance from the centre is exactly zero and the centre tap is exactly
// 0.5, so the filter splits into a dense branch (the even-indexed taps)
// and a pure delay.
type HalfBand struct {
	Order       int     // K; the filter has 4K-1 taps
	Attenuation float64 // design stopband attenuation in dB
	Taps        []float64

	// Branch is the dense polyphase branch h[0], h[2], ..., h[4K-2] in
	// float32. It is symmetric, so it can be dotted against a history
	// window ordered oldest to newest without reversal.
	Branch []float32

	// UpBranch is Branch scaled by 2, the zero-stuffing gain of an
	// interpolator.
	UpBranch []float32
}

// Len returns the number of taps, 4K-1.
func (h *HalfBand) Len() int { return len(h.Taps) }

// Center returns the index of the centre tap, 2K-1. It is also the group
// delay in samples at the filter's rate.
func (h *HalfBand) Center() int { return 2*h.Order - 1 }

// BranchLen returns the number of dense branch taps, 2K.
func (h *HalfBand) BranchLen() int { return 2 * h.Order }

// TransitionWidth returns the estimated transition band width as a
// fraction of the filter's sample rate, centred on 0.25.
func (h *HalfBand) TransitionWidth() float64 {
	return mathutil.KaiserTransition(h.Attenuation, h.Len())
}

// OrderFor returns the smallest order K whose Kaiser half-band reaches the
// attenuation over the given transition width (a fraction of the filter's
// sample rate). It is the inverse of TransitionWidth.
func OrderFor(attenuation, transitionBW float64) int {
	return (mathutil.HalfBandLength(attenuation, transitionBW) + 1) / 4
}

// DesignHalfBand designs a Kaiser-windowed half-band filter of order k
// (4k-1 taps) for the given stopband attenuation in dB.
func DesignHalfBand(k int, attenuation float64) (*HalfBand, error) {
	if k < minOrder || k > maxOrder {
		return nil, fmt.Errorf("%w: order %d not in [%d, %d]", ErrInvalidDesign, k, minOrder, maxOrder)
	}
	if !(attenuation > 0) || math.IsInf(attenuation, 0) {
		return nil, fmt.Errorf("%w: attenuation %g dB", ErrInvalidDesign, attenuation)
	}

	n := 4*k - 1
	c := 2*k - 1

	// Ideal half-band: h[c+d] = sin(πd/2) / (πd), 0.5 at d = 0.
	taps := make([]float64, n)
	for i := range n {
		d := i - c
		if d == 0 {
			taps[i] = centerTap
			continue
		}
		if d%2 == 0 {
			continue
		}
		x := float64(d)
		taps[i] = math.Sin(math.Pi*x/2) / (math.Pi * x)
	}

	vecmath.MulBlockInPlace(taps, KaiserWindow(n, mathutil.KaiserBeta(attenuation)))

	// Normalise the dense branch so DC gain is exactly 1.
	branch := make([]float64, 2*k)
	for j := range branch {
		branch[j] = taps[2*j]
	}
	if sum := f64.Sum(branch); sum != 0 {
		f64.Scale(branch, branch, centerTap/sum)
	}
	for j, v := range branch {
		taps[2*j] = v
	}
	taps[c] = centerTap

	hb := &HalfBand{
		Order:       k,
		Attenuation: attenuation,
		Taps:        taps,
		Branch:      make([]float32, 2*k),
		UpBranch:    make([]float32, 2*k),
	}
	for j, v := range branch {
		hb.Branch[j] = float32(v)
		hb.UpBranch[j] = float32(2 * v)
	}

	return hb, nil
}

var (
	stage1Once sync.Once
	stage1     *HalfBand
	stage2Once sync.Once
	stage2     *HalfBand
)

// HalfBandStage1 returns the shared filter of the first (base rate to 2×)
// stage. The result is built once per process and must not be modified.
func HalfBandStage1() *HalfBand {
	stage1Once.Do(func() {
		stage1 = mustDesign(Stage1Order, Stage1Attenuation)
	})
	return stage1
}

// HalfBandStage2 returns the shared filter of the second (2× to 4×) stage.
// The result is built once per process and must not be modified.
func HalfBandStage2() *HalfBand {
	stage2Once.Do(func() {
		stage2 = mustDesign(Stage2Order, Stage2Attenuation)
	})
	return stage2
}

func mustDesign(k int, attenuation float64) *HalfBand {
	hb, err := DesignHalfBand(k, attenuation)
	if err != nil {
		panic(fmt.Sprintf("filter: built-in stage design failed: %v", err))
	}
	return hb
}
