package clipper

import (
	"fmt"

	"github.com/tphakala/simd/f32"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000
)

// NewMono creates a mono processor with 4x oversampling and parameters v.
func NewMono(sampleRate float64, v Values) (*Processor, error) {
	config := DefaultConfig(sampleRate, 1)
	config.Params = &v
	return New(config)
}

// NewStereo creates a stereo processor with the given oversampling factor
// and parameters v.
func NewStereo(sampleRate float64, factor Factor, v Values) (*Processor, error) {
	config := DefaultConfig(sampleRate, stereoChannels)
	config.Factor = factor
	config.Params = &v
	return New(config)
}

// ClipMono is a convenience function for one-shot mono clipping at 4x
// oversampling. The output has the input's length and is time-aligned
// with it: the processor's latency is flushed and trimmed.
func ClipMono(input []float32, sampleRate float64, v Values) ([]float32, error) {
	p, err := NewMono(sampleRate, v)
	if err != nil {
		return nil, err
	}
	out, err := p.clipAligned([][]float32{input})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// ClipStereo is a convenience function for one-shot stereo clipping at 4x
// oversampling. Both channels must have the same length.
func ClipStereo(left, right []float32, sampleRate float64, v Values) (leftOut, rightOut []float32, err error) {
	if len(left) != len(right) {
		return nil, nil, fmt.Errorf("%w: left %d and right %d samples", ErrInvalidBuffer, len(left), len(right))
	}
	p, err := NewStereo(sampleRate, Factor4x, v)
	if err != nil {
		return nil, nil, err
	}
	out, err := p.clipAligned([][]float32{left, right})
	if err != nil {
		return nil, nil, err
	}
	return out[0], out[1], nil
}

// clipAligned processes whole signals followed by Latency samples of
// silence and drops the first Latency output samples.
func (p *Processor) clipAligned(input [][]float32) ([][]float32, error) {
	n := len(input[0])
	latency := p.Latency()

	src := make([][]float32, len(input))
	for ch, in := range input {
		src[ch] = make([]float32, n+latency)
		copy(src[ch], in)
	}

	if err := p.Process(src, src); err != nil {
		return nil, err
	}

	out := make([][]float32, len(src))
	for ch := range src {
		out[ch] = src[ch][latency:]
	}
	return out, nil
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo(left, right []float32) []float32 {
	minLen := min(len(left), len(right))
	result := make([]float32, minLen*stereoChannels)
	f32.Interleave2(result, left[:minLen], right[:minLen])
	return result
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo(interleaved []float32) (left, right []float32) {
	numSamples := len(interleaved) / stereoChannels
	left = make([]float32, numSamples)
	right = make([]float32, numSamples)
	for i := range numSamples {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}
	return left, right
}

// Deinterleave splits interleaved frames of the given channel count into
// planar slices. A trailing partial frame is dropped.
func Deinterleave(interleaved []float32, channels int) ([][]float32, error) {
	if channels < 1 || channels > maxChannels {
		return nil, fmt.Errorf("%w: channels %d", ErrInvalidBuffer, channels)
	}
	frames := len(interleaved) / channels
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
		for i := range frames {
			out[ch][i] = interleaved[i*channels+ch]
		}
	}
	return out, nil
}

// Interleave joins planar channels of equal length into interleaved frames.
func Interleave(planar [][]float32) ([]float32, error) {
	if len(planar) == 0 {
		return nil, nil
	}
	frames := len(planar[0])
	for ch, p := range planar {
		if len(p) != frames {
			return nil, fmt.Errorf("%w: channel %d has %d samples, want %d", ErrInvalidBuffer, ch, len(p), frames)
		}
	}
	if len(planar) == stereoChannels {
		return InterleaveToStereo(planar[0], planar[1]), nil
	}

	channels := len(planar)
	out := make([]float32, frames*channels)
	for ch, p := range planar {
		for i, x := range p {
			out[i*channels+ch] = x
		}
	}
	return out, nil
}
