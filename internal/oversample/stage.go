package oversample

import (
	"fmt"

	"github.com/tphakala/simd/f32"

	"github.com/tphakala/go-audio-clipper/internal/assert"
	"github.com/tphakala/go-audio-clipper/internal/filter"
	"github.com/tphakala/go-audio-clipper/internal/ringbuf"
)

// Decimation phases. Phase 0 keeps the filter output aligned with the even
// input sample of each pair, phase 1 with the odd one.
const (
	phaseEven = 0
	phaseOdd  = 1
)

// FilterStage is one 2× half-band stage: an interpolator and a decimator
// sharing a coefficient table, each with its own history.
//
// Both directions use the polyphase split of the half-band filter. The
// dense branch (2K taps) is a dot product against a contiguous history
// window; the other branch is the 0.5 centre tap, which reduces to a
// delayed copy of one input.
type FilterStage struct {
	hb     *filter.HalfBand
	order  int
	upHist *ringbuf.RingBuffer // base-rate input of the interpolator

	// Decimator history, split by input parity.
	evenHist *ringbuf.RingBuffer
	oddHist  *ringbuf.RingBuffer
}

// NewFilterStage allocates the history rings for a stage using hb.
func NewFilterStage(hb *filter.HalfBand) (*FilterStage, error) {
	n := hb.BranchLen()

	up, err := ringbuf.New(n)
	if err != nil {
		return nil, fmt.Errorf("interpolator history: %w", err)
	}
	even, err := ringbuf.New(n)
	if err != nil {
		return nil, fmt.Errorf("decimator history: %w", err)
	}
	odd, err := ringbuf.New(n)
	if err != nil {
		return nil, fmt.Errorf("decimator history: %w", err)
	}

	return &FilterStage{
		hb:       hb,
		order:    hb.Order,
		upHist:   up,
		evenHist: even,
		oddHist:  odd,
	}, nil
}

// Interpolate writes 2*len(src) samples to dst. For each input x[n]:
//
//	dst[2n]   = Σ 2h[2j] x[n-j]
//	dst[2n+1] = x[n-K+1]
func (s *FilterStage) Interpolate(dst, src []float32) {
	if assert.Enabled && len(dst) != 2*len(src) {
		assert.Failf("oversample: interpolate %d -> %d", len(src), len(dst))
	}

	n := s.hb.BranchLen()
	taps := s.hb.UpBranch
	delay := s.order - 1

	for i, x := range src {
		s.upHist.Push(x)
		dst[2*i] = f32.DotProductUnsafe(s.upHist.Window(n), taps)
		dst[2*i+1] = s.upHist.At(delay)
	}
}

// Decimate consumes pairs from src and writes len(src)/2 samples to dst,
// evaluating the filter only at the kept phase.
func (s *FilterStage) Decimate(dst, src []float32, phase int) {
	if assert.Enabled && len(src) != 2*len(dst) {
		assert.Failf("oversample: decimate %d -> %d", len(src), len(dst))
	}

	n := s.hb.BranchLen()
	taps := s.hb.Branch
	k := s.order

	if phase == phaseEven {
		for i := range dst {
			s.evenHist.Push(src[2*i])
			s.oddHist.Push(src[2*i+1])
			dst[i] = f32.DotProductUnsafe(s.evenHist.Window(n), taps) + 0.5*s.oddHist.At(k)
		}
		return
	}

	for i := range dst {
		s.evenHist.Push(src[2*i])
		s.oddHist.Push(src[2*i+1])
		dst[i] = f32.DotProductUnsafe(s.oddHist.Window(n), taps) + 0.5*s.evenHist.At(k-1)
	}
}

// Reset zeroes all history.
func (s *FilterStage) Reset() {
	s.upHist.Reset()
	s.evenHist.Reset()
	s.oddHist.Reset()
}
