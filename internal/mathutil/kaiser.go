package mathutil

import "math"

// KaiserBeta computes the Kaiser window β for a stopband attenuation in dB.
//
//   - att > 50 dB:        β = 0.1102 * (att - 8.7)
//   - 21 dB <= att <= 50: β = 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//   - otherwise:          β = 0
func KaiserBeta(attenuation float64) float64 {
	if attenuation > kaiserAttHigh {
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	} else if attenuation >= kaiserAttMedium {
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	}
	return 0.0
}

// KaiserTransition inverts Kaiser's length formula: the transition width
// (as a fraction of the sample rate) a window of numTaps achieves at the
// given attenuation.
func KaiserTransition(attenuation float64, numTaps int) float64 {
	if numTaps < 2 {
		return 0.5
	}
	return (attenuation - kaiserFilterLengthOffset) /
		(kaiserFilterLengthMultiplier * 2 * math.Pi * float64(numTaps-1))
}

// HalfBandLength returns the smallest half-band length of the form 4K-1
// that reaches the attenuation over the given transition width.
//
// The 4K-1 form puts the centre tap at an odd index, so every tap at an
// even, non-zero distance from it is zero and the polyphase split has a
// pure-delay branch. A width taken from KaiserTransition for a 4K-1 filter
// maps back to exactly 4K-1.
func HalfBandLength(attenuation, transitionBW float64) int {
	if transitionBW <= 0 {
		return maxHalfBandK*halfBandLengthModulus - 1
	}

	n := (attenuation-kaiserFilterLengthOffset)/
		(kaiserFilterLengthMultiplier*2*math.Pi*transitionBW) + 1

	k := int(math.Ceil((n+1)/halfBandLengthModulus - lengthRoundingSlack))
	k = max(k, minHalfBandK)
	k = min(k, maxHalfBandK)

	return k*halfBandLengthModulus - 1
}
