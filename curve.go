package clipper

import (
	"fmt"

	"github.com/tphakala/go-audio-clipper/internal/mathutil"
	"github.com/tphakala/go-audio-clipper/internal/pipeline"
	"github.com/tphakala/go-audio-clipper/internal/shaper"
)

// CurvePoint is one sample of the static transfer curve.
type CurvePoint struct {
	InputDB  float64
	OutputDB float64
}

// TransferCurve samples the static input/output characteristic at the
// current parameters, for an editor plot. points levels are spaced evenly
// from minDB to maxDB inclusive. The curve ignores filtering and DC
// blocking, so it describes steady-state gain only.
func (p *Processor) TransferCurve(points int, minDB, maxDB float64) ([]CurvePoint, error) {
	return TransferCurve(p.Values(), points, minDB, maxDB)
}

// TransferCurve samples the static characteristic of v. See
// [Processor.TransferCurve].
func TransferCurve(v Values, points int, minDB, maxDB float64) ([]CurvePoint, error) {
	if points < minCurvePoints || points > maxCurvePoints {
		return nil, fmt.Errorf("%w: %d curve points must be between %d and %d",
			ErrInvalidConfig, points, minCurvePoints, maxCurvePoints)
	}
	if !(minDB < maxDB) {
		return nil, fmt.Errorf("%w: curve range [%g, %g] dB is empty", ErrInvalidConfig, minDB, maxDB)
	}

	v = v.Clamped()
	g := pipeline.DeriveGains(&v)
	curve := shaper.NewCurve(g.Hardness)

	out := make([]CurvePoint, points)
	step := (maxDB - minDB) / float64(points-1)
	for i := range out {
		inDB := minDB + step*float64(i)
		x := float32(mathutil.FastDBToGain(inDB))

		y := x
		if !v.Bypass {
			wet := g.Post * curve.Apply(g.Pre*x)
			y = x + g.Mix*(wet-x)
		}

		outDB := mathutil.GainToDB(float64(y))
		out[i] = CurvePoint{InputDB: inDB, OutputDB: max(outDB, curveFloorDB)}
	}
	return out, nil
}
