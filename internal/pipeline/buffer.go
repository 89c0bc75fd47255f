package pipeline

import (
	"fmt"

	"github.com/tphakala/go-audio-clipper/internal/ringbuf"
)

// blockBuffers is the scratch set of one channel, sized once for the
// largest block and factor so Process never allocates.
type blockBuffers struct {
	work []float32 // base-rate wet signal
	dry  []float32 // latency-aligned dry signal
	up   []float32 // oversampled signal
}

func newBlockBuffers(maxBlock, factor int) blockBuffers {
	return blockBuffers{
		work: make([]float32, maxBlock),
		dry:  make([]float32, maxBlock),
		up:   make([]float32, factor*maxBlock),
	}
}

// delayLine delays a stream by a whole number of samples.
type delayLine struct {
	ring  *ringbuf.RingBuffer
	delay int
}

func newDelayLine(delay int) (*delayLine, error) {
	ring, err := ringbuf.New(max(delay+1, minDelayCapacity))
	if err != nil {
		return nil, fmt.Errorf("delay line: %w", err)
	}
	return &delayLine{ring: ring, delay: delay}, nil
}

// Process writes src delayed by the line's delay to dst. dst may alias src.
func (d *delayLine) Process(dst, src []float32) {
	for i, x := range src {
		d.ring.Push(x)
		dst[i] = d.ring.At(d.delay)
	}
}

func (d *delayLine) Reset() {
	d.ring.Reset()
}
