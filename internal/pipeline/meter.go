package pipeline

import (
	"math"
	"sync/atomic"

	"github.com/tphakala/go-audio-clipper/internal/mathutil"
)

// Meter is a peak follower with instant attack and exponential release.
// Process runs on the audio thread; Level may be read from any goroutine.
type Meter struct {
	level  atomic.Uint32 // float32 bits, published once per block
	peak   float32
	weight float32 // per-sample release coefficient
}

// NewMeter creates a meter releasing over MeterDecayMS at sampleRate.
func NewMeter(sampleRate float64) *Meter {
	return &Meter{
		weight: float32(mathutil.DecayCoefficient(meterDecayFraction, MeterDecayMS, sampleRate)),
	}
}

// Process follows the absolute peak of buf. Non-finite samples are ignored.
func (m *Meter) Process(buf []float32) {
	peak, w := m.peak, m.weight
	for _, x := range buf {
		a := float32(math.Abs(float64(x)))
		if a != a || a > math.MaxFloat32 {
			continue
		}
		if a > peak {
			peak = a
		} else {
			peak = peak*w + a*(1-w)
		}
	}
	m.peak = peak
	m.level.Store(math.Float32bits(peak))
}

// Level returns the last published peak, linear.
func (m *Meter) Level() float32 {
	return math.Float32frombits(m.level.Load())
}

// LevelDB returns the last published peak in decibels.
func (m *Meter) LevelDB() float64 {
	return mathutil.GainToDB(float64(m.Level()))
}

// Reset clears the held peak.
func (m *Meter) Reset() {
	m.peak = 0
	m.level.Store(0)
}
