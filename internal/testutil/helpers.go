// Package testutil provides shared assertions and signal generators for the
// clipper tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance   = 1e-10
	CoeffTolerance     = 1e-12
	RoundTripTolerance = 0.01
)

// Float is the sample type constraint used by the generic helpers.
type Float interface {
	float32 | float64
}

// AssertSymmetric verifies that a slice is symmetric (s[i] == s[n-1-i]).
func AssertSymmetric[F Float](t *testing.T, s []F, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if !assert.InDelta(t, float64(s[i]), float64(s[j]), tolerance,
			"slice not symmetric: s[%d]=%g != s[%d]=%g", i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertFinite verifies that no element is NaN or Inf.
func AssertFinite[F Float](t *testing.T, s []F) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return assert.Fail(t, "non-finite sample", "s[%d] = %g", i, f)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [minVal, maxVal].
func AssertAllInRange[F Float](t *testing.T, s []F, minVal, maxVal float64) bool {
	t.Helper()
	for i, v := range s {
		if f := float64(v); f < minVal || f > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%g is outside range [%g, %g]", i, f, minVal, maxVal)
		}
	}
	return true
}

// AssertAllZero verifies every element is exactly zero.
func AssertAllZero[F Float](t *testing.T, s []F) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "non-zero sample", "s[%d] = %g", i, v)
		}
	}
	return true
}

// AssertDCGain verifies that the sum of coefficients equals the expected DC gain.
func AssertDCGain(t *testing.T, coeffs []float64, expectedGain, tolerance float64) bool {
	t.Helper()
	var sum float64
	for _, c := range coeffs {
		sum += c
	}
	return assert.InDelta(t, expectedGain, sum, tolerance,
		"DC gain = %f, want %f", sum, expectedGain)
}

// AssertMonotonic verifies that a slice is non-decreasing.
func AssertMonotonic[F Float](t *testing.T, s []F) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return assert.Fail(t, "not monotonic",
				"s[%d]=%g < s[%d]=%g", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// Sine returns n samples of amp*sin(2π f t) at the given sample rate.
func Sine(n int, freq, sampleRate, amp float64) []float32 {
	out := make([]float32, n)
	w := 2 * math.Pi * freq / sampleRate
	for i := range out {
		out[i] = float32(amp * math.Sin(w*float64(i)))
	}
	return out
}

// Constant returns n copies of v.
func Constant(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Noise returns n deterministic pseudo-random samples in [-amp, amp].
// A fixed LCG keeps runs reproducible without math/rand state.
func Noise(n int, amp float32, seed uint32) []float32 {
	out := make([]float32, n)
	s := seed | 1
	for i := range out {
		s = s*1664525 + 1013904223
		out[i] = amp * (float32(s>>8)/float32(1<<24)*2 - 1)
	}
	return out
}

// MaxAbs returns the largest absolute value in s.
func MaxAbs[F Float](s []F) float64 {
	var peak float64
	for _, v := range s {
		peak = max(peak, math.Abs(float64(v)))
	}
	return peak
}

// RMS returns the root-mean-square of s.
func RMS[F Float](s []F) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(s)))
}

// RMSError returns the RMS of (got - want) over the shorter length.
func RMSError[F Float](got, want []F) float64 {
	n := min(len(got), len(want))
	if n == 0 {
		return 0
	}
	var sum float64
	for i := range n {
		d := float64(got[i]) - float64(want[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}
