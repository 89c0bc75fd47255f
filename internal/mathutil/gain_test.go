package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-audio-clipper/internal/testutil"
)

func TestDBToGain(t *testing.T) {
	tests := []struct {
		db   float64
		want float64
	}{
		{0, 1},
		{6.0205999, 2},
		{-6.0205999, 0.5},
		{20, 10},
		{-20, 0.1},
		{36, 63.0957344},
	}

	for _, tt := range tests {
		testutil.AssertRelativeError(t, tt.want, DBToGain(tt.db), 1e-6)
		assert.InDelta(t, tt.db, GainToDB(tt.want), 1e-5)
	}
}

func TestGainToDB_Silence(t *testing.T) {
	assert.InDelta(t, -200.0, GainToDB(0), 1e-9)
	assert.False(t, math.IsInf(GainToDB(0), 0))
	assert.InDelta(t, GainToDB(0.5), GainToDB(-0.5), 1e-12)
}

func TestFastDBToGain(t *testing.T) {
	for db := -30.0; db <= 36.0; db += 1.5 {
		testutil.AssertRelativeError(t, DBToGain(db), FastDBToGain(db), 1e-2)
	}
}

func TestDecayCoefficient(t *testing.T) {
	const (
		sampleRate = 48000.0
		ms         = 650.0
	)
	coef := DecayCoefficient(0.25, ms, sampleRate)
	testutil.AssertInRange(t, coef, 0.99, 1.0)

	// Applying it for the full window lands on the target fraction.
	n := sampleRate * ms / 1000
	testutil.AssertRelativeError(t, 0.25, math.Pow(coef, n), 1e-2)

	assert.Zero(t, DecayCoefficient(0.25, 0, sampleRate))
	assert.Zero(t, DecayCoefficient(0, ms, sampleRate))
}
