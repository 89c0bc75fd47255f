package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-audio-clipper/internal/testutil"
)

func TestMeter_TracksPeak(t *testing.T) {
	m := NewMeter(testRate)
	m.Process(testutil.Sine(4800, 1000, testRate, 0.5))
	assert.InDelta(t, 0.5, m.Level(), 0.01)
	assert.InDelta(t, -6.02, m.LevelDB(), 0.2)
}

func TestMeter_Release(t *testing.T) {
	m := NewMeter(testRate)
	m.Process([]float32{1})

	// 650 ms of silence releases to a quarter.
	m.Process(make([]float32, int(testRate*MeterDecayMS/1000)))
	assert.InDelta(t, 0.25, m.Level(), 0.01)
}

func TestMeter_IgnoresNonFinite(t *testing.T) {
	m := NewMeter(testRate)
	m.Process([]float32{0.3, float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))})
	assert.InDelta(t, 0.3, m.Level(), 1e-3)
}

func TestMeter_Reset(t *testing.T) {
	m := NewMeter(testRate)
	m.Process([]float32{0.8})
	m.Reset()
	assert.Zero(t, m.Level())
	assert.InDelta(t, -200.0, m.LevelDB(), 1e-9)
}
