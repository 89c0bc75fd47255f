package clipper

import (
	"fmt"

	"github.com/tphakala/go-audio-clipper/internal/mathutil"
)

// Level is a pair of peak meter readings for one channel, in decibels.
type Level struct {
	InputDB  float64
	OutputDB float64
}

// Level returns the current input and output peaks of channel ch. It may
// be called from any goroutine while audio is being processed.
func (p *Processor) Level(ch int) (Level, error) {
	if ch < 0 || ch >= len(p.channels) {
		return Level{}, fmt.Errorf("%w: channel %d of %d", ErrInvalidBuffer, ch, len(p.channels))
	}
	c := p.channels[ch]
	return Level{
		InputDB:  c.InputMeter().LevelDB(),
		OutputDB: c.OutputMeter().LevelDB(),
	}, nil
}

// Levels returns the meter readings of every channel.
func (p *Processor) Levels() []Level {
	out := make([]Level, len(p.channels))
	for ch, c := range p.channels {
		out[ch] = Level{
			InputDB:  c.InputMeter().LevelDB(),
			OutputDB: c.OutputMeter().LevelDB(),
		}
	}
	return out
}

// PeakDB returns the loudest output peak across channels, for a single
// GUI readout.
func (p *Processor) PeakDB() float64 {
	var peak float32
	for _, c := range p.channels {
		peak = max(peak, c.OutputMeter().Level())
	}
	return mathutil.GainToDB(float64(peak))
}
