// Package filter designs the half-band low-pass filters used by the
// oversampling stages and measures their frequency response.
package filter

import (
	"math"

	"github.com/tphakala/go-audio-clipper/internal/mathutil"
)

// KaiserWindow generates a symmetric Kaiser window of the given length:
//
//	w[n] = I₀(β·sqrt(1 - ((n - α)/α)²)) / I₀(β),  α = (length-1)/2
//
// The peak is 1 at the centre.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}

	alpha := float64(length-1) / 2
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(1.0-x*x)) / i0Beta
	}

	return window
}
