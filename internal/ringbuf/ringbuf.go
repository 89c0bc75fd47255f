// Package ringbuf implements the fixed-capacity sample ring used by the
// oversampling filter stages and the dry-signal delay line.
//
// Storage is mirrored: every sample is written twice, C slots apart, so the
// most recent n samples always form one contiguous slice. Filter stages hand
// that slice directly to SIMD dot products instead of walking the ring with
// wrapped indices.
package ringbuf

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-clipper/internal/assert"
)

const minCapacity = 2

var (
	// ErrOutOfRange indicates a tap offset outside [0, capacity-1].
	ErrOutOfRange = errors.New("ring buffer tap out of range")

	// ErrInvalidCapacity indicates a capacity below the minimum.
	ErrInvalidCapacity = errors.New("invalid ring buffer capacity")
)

// RingBuffer is a fixed-capacity circular store of float32 samples.
// The zero value is not usable; create instances with New.
type RingBuffer struct {
	data     []float32 // 2*capacity, second half mirrors the first
	capacity int
	pos      int // slot of the most recent push
}

// New creates a ring buffer holding exactly capacity samples, all zero.
// This is the only allocation the buffer ever performs.
func New(capacity int) (*RingBuffer, error) {
	if capacity < minCapacity {
		return nil, fmt.Errorf("%w: %d (minimum %d)", ErrInvalidCapacity, capacity, minCapacity)
	}

	return &RingBuffer{
		data:     make([]float32, 2*capacity),
		capacity: capacity,
		pos:      capacity - 1,
	}, nil
}

// Push writes x as the newest sample, overwriting the oldest one.
func (b *RingBuffer) Push(x float32) {
	b.pos++
	if b.pos == b.capacity {
		b.pos = 0
	}
	b.data[b.pos] = x
	b.data[b.pos+b.capacity] = x
}

// At returns the sample k pushes back from the newest one (k = 0 is the
// newest). k must be in [0, capacity-1]; this is only checked in clipdebug
// builds.
func (b *RingBuffer) At(k int) float32 {
	if assert.Enabled && (k < 0 || k >= b.capacity) {
		assert.Failf("ringbuf: At(%d) with capacity %d", k, b.capacity)
	}
	return b.data[b.pos+b.capacity-k]
}

// Tap reads the buffer at a fractional offset back from the newest sample,
// linearly interpolating between the two neighbouring integer offsets.
//
// The valid range is the closed interval [0, capacity-1]: the oldest
// sample itself can be read at offset capacity-1, where no interpolation
// is needed. NaN, negative and larger offsets return ErrOutOfRange.
func (b *RingBuffer) Tap(offset float64) (float32, error) {
	maxOffset := float64(b.capacity - 1)
	if !(offset >= 0 && offset <= maxOffset) {
		return 0, fmt.Errorf("%w: offset %g not in [0, %g]", ErrOutOfRange, offset, maxOffset)
	}

	k := int(offset)
	frac := float32(offset - float64(k))
	base := b.pos + b.capacity - k
	a := b.data[base]
	if frac == 0 {
		return a, nil
	}

	// k+1 <= capacity-1 here because offset < capacity-1
	next := b.data[base-1]
	return a + frac*(next-a), nil
}

// Window returns the n most recent samples ordered oldest to newest.
// The slice aliases internal storage and is valid until the next Push.
func (b *RingBuffer) Window(n int) []float32 {
	if assert.Enabled && (n <= 0 || n > b.capacity) {
		assert.Failf("ringbuf: Window(%d) with capacity %d", n, b.capacity)
	}
	end := b.pos + b.capacity + 1
	return b.data[end-n : end]
}

// Capacity returns the fixed number of samples the buffer holds.
func (b *RingBuffer) Capacity() int {
	return b.capacity
}

// Reset zeroes the stored samples. The cursor position is kept; with all
// slots zero it is unobservable.
func (b *RingBuffer) Reset() {
	clear(b.data)
}
