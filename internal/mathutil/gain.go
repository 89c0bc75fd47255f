package mathutil

import (
	"math"

	approx "github.com/meko-christian/algo-approx"
)

// DBToGain converts decibels to a linear amplitude factor.
func DBToGain(db float64) float64 {
	return math.Exp(db * dbToLog)
}

// GainToDB converts a linear amplitude factor to decibels. Magnitudes below
// 1e-10 are floored so silence maps to -200 dB instead of -Inf.
func GainToDB(gain float64) float64 {
	gain = math.Abs(gain)
	if gain < minMagnitude {
		gain = minMagnitude
	}
	return dbAmplitude * math.Log10(gain)
}

// FastDBToGain is DBToGain through a polynomial exp approximation. Used for
// meter readouts and curve plots, never for gains applied to audio.
func FastDBToGain(db float64) float64 {
	return approx.FastExp(db * dbToLog)
}

// DecayCoefficient returns the per-sample multiplier that lets a value fall
// to the given fraction of itself over ms milliseconds at sampleRate:
//
//	coef = fraction^(1 / (sampleRate * ms / 1000))
func DecayCoefficient(fraction, ms, sampleRate float64) float64 {
	samples := sampleRate * ms / msPerSecond
	if samples <= 0 || fraction <= 0 {
		return 0
	}
	return math.Exp(math.Log(fraction) / samples)
}
