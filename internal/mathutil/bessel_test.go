package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-audio-clipper/internal/testutil"
)

// seriesI0 sums the power series Σ ((x/2)^k / k!)², slow but exact to
// double precision over the range window design uses.
func seriesI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4
	for k := 1.0; term > 1e-18*sum; k++ {
		term *= q / (k * k)
		sum += term
	}
	return sum
}

// TestBesselI0_MatchesSeries covers every argument a Kaiser window of the
// built-in stages evaluates: β·sqrt(1-r²) for r in [-1, 1], β up to ~12.
func TestBesselI0_MatchesSeries(t *testing.T) {
	for x := -12.0; x <= 12.0; x += 0.05 {
		testutil.AssertRelativeError(t, seriesI0(x), BesselI0(x), 1e-6, "x=%g", x)
	}
}

// TestBesselI0_StageWindows checks the window edge weight 1/I0(β) of both
// stage designs, which sets how far the window tapers.
func TestBesselI0_StageWindows(t *testing.T) {
	tests := []struct {
		attenuation float64
		edge        float64
	}{
		{80, 0.002672620818641508},
		{100, 0.0003350960976811219},
	}
	for _, tt := range tests {
		beta := KaiserBeta(tt.attenuation)
		testutil.AssertRelativeError(t, tt.edge, 1/BesselI0(beta), 1e-6, "%g dB", tt.attenuation)
	}
}

func TestBesselI0_ContinuousAtBranchSwitch(t *testing.T) {
	below := BesselI0(math.Nextafter(besselSmallArgThreshold, 0))
	at := BesselI0(besselSmallArgThreshold)
	testutil.AssertRelativeError(t, at, below, 1e-6)
}

func TestBesselI0_EvenAndIncreasing(t *testing.T) {
	assert.Equal(t, 1.0, BesselI0(0))

	prev := BesselI0(0)
	for x := 0.25; x <= 12; x += 0.25 {
		v := BesselI0(x)
		assert.Equal(t, v, BesselI0(-x), "x=%g", x)
		assert.Greater(t, v, prev, "x=%g", x)
		prev = v
	}
}

func BenchmarkBesselI0(b *testing.B) {
	beta := KaiserBeta(100)
	for b.Loop() {
		_ = BesselI0(beta)
	}
}
