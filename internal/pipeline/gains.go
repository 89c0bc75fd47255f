package pipeline

import (
	"github.com/tphakala/simd/f32"

	"github.com/tphakala/go-audio-clipper/internal/mathutil"
	"github.com/tphakala/go-audio-clipper/internal/params"
	"github.com/tphakala/go-audio-clipper/internal/shaper"
)

// Gains are the linear factors derived from one parameter snapshot.
type Gains struct {
	Pre      float32 // pre-gain · drive / threshold
	Post     float32 // threshold / drive compensation · post-gain
	Hardness float32
	Mix      float32
}

// DeriveGains converts a snapshot into linear gains.
//
// The signal is scaled so the clipper's knee sits at the threshold, then
// scaled back and divided by a blend of the clipped and the raw drive so
// loudness stays roughly level as drive rises.
func DeriveGains(v *params.Values) Gains {
	pre := mathutil.DBToGain(v.PreGainDB)
	post := mathutil.DBToGain(v.PostGainDB)
	drive := mathutil.DBToGain(v.DriveDB)
	threshold := mathutil.DBToGain(v.ThresholdDB)
	hardness := float32(v.Hardness)

	clipped := float64(shaper.Apply(float32(drive), hardness))
	comp := clipped*driveCalibration + drive*invDriveCalibration

	return Gains{
		Pre:      float32(pre * drive / threshold),
		Post:     float32(threshold / comp * post),
		Hardness: hardness,
		Mix:      float32(v.Mix),
	}
}

// rampGain multiplies buf by a gain moving linearly from from to to over
// the block, reaching to on the last sample.
func rampGain(buf []float32, from, to float32) {
	if from == to {
		f32.Scale(buf, buf, to)
		return
	}
	step := (to - from) / float32(len(buf))
	for i := range buf {
		buf[i] *= from + step*float32(i+1)
	}
}

// mixInto writes dry + mix·(wet - dry) to dst with mix ramped like rampGain.
func mixInto(dst, dry, wet []float32, from, to float32) {
	if from == to && to == 1 {
		copy(dst, wet)
		return
	}
	step := (to - from) / float32(len(dst))
	for i := range dst {
		m := to
		if step != 0 {
			m = from + step*float32(i+1)
		}
		dst[i] = dry[i] + m*(wet[i]-dry[i])
	}
}
