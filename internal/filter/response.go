package filter

import (
	"errors"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-audio-clipper/internal/mathutil"
)

// DefaultFFTSize is the transform length used by Analyze.
const DefaultFFTSize = 8192

// ErrFFTSize indicates an FFT length shorter than the filter.
var ErrFFTSize = errors.New("fft size too small")

// Response holds a sampled magnitude response.
type Response struct {
	// Frequencies of each bin, normalized to the filter rate (0 to 0.5).
	Frequencies []float64
	// Magnitude at each bin, linear.
	Magnitude []float64
}

// FrequencyResponse zero-pads taps to fftSize and returns the magnitude of
// the fftSize/2+1 non-negative frequency bins.
func FrequencyResponse(taps []float64, fftSize int) (Response, error) {
	if fftSize < len(taps) || fftSize < 2 {
		return Response{}, fmt.Errorf("%w: %d for %d taps", ErrFFTSize, fftSize, len(taps))
	}

	padded := make([]float64, fftSize)
	copy(padded, taps)

	fft := fourier.NewFFT(fftSize)
	coeffs := fft.Coefficients(nil, padded)

	re := make([]float64, len(coeffs))
	im := make([]float64, len(coeffs))
	for i, c := range coeffs {
		re[i] = real(c)
		im[i] = imag(c)
	}

	resp := Response{
		Frequencies: make([]float64, len(coeffs)),
		Magnitude:   make([]float64, len(coeffs)),
	}
	vecmath.Magnitude(resp.Magnitude, re, im)
	for i := range resp.Frequencies {
		resp.Frequencies[i] = float64(i) / float64(fftSize)
	}

	return resp, nil
}

// PeakIn returns the largest magnitude over bins with lo <= f <= hi.
func (r Response) PeakIn(lo, hi float64) float64 {
	var peak float64
	for i, f := range r.Frequencies {
		if f >= lo && f <= hi {
			peak = max(peak, r.Magnitude[i])
		}
	}
	return peak
}

// DeviationIn returns the largest |magnitude - 1| over bins with lo <= f <= hi.
func (r Response) DeviationIn(lo, hi float64) float64 {
	var dev float64
	for i, f := range r.Frequencies {
		if f >= lo && f <= hi {
			dev = max(dev, math.Abs(r.Magnitude[i]-1))
		}
	}
	return dev
}

// At returns the magnitude of the bin closest to f.
func (r Response) At(f float64) float64 {
	if len(r.Frequencies) < 2 {
		return 0
	}
	step := r.Frequencies[1]
	i := int(math.Round(f / step))
	i = max(0, min(i, len(r.Magnitude)-1))
	return r.Magnitude[i]
}

// Analysis summarizes a half-band design.
type Analysis struct {
	Taps         int
	Order        int
	GroupDelay   int     // samples at the filter rate
	PassbandEdge float64 // normalized to the filter rate
	StopbandEdge float64
	RippleDB     float64 // peak passband deviation
	StopbandDB   float64 // attenuation of the worst stopband bin, positive
	HalfPointDB  float64 // response at 0.25, ideally -6.02 dB
}

// Analyze measures passband ripple and stopband attenuation of h using an
// FFT of fftSize points.
func Analyze(h *HalfBand, fftSize int) (Analysis, error) {
	resp, err := FrequencyResponse(h.Taps, fftSize)
	if err != nil {
		return Analysis{}, err
	}

	tw := h.TransitionWidth()
	pass := 0.25 - tw/2
	stop := 0.25 + tw/2

	return Analysis{
		Taps:         h.Len(),
		Order:        h.Order,
		GroupDelay:   h.Center(),
		PassbandEdge: pass,
		StopbandEdge: stop,
		RippleDB:     mathutil.GainToDB(1 + resp.DeviationIn(0, pass)),
		StopbandDB:   -mathutil.GainToDB(resp.PeakIn(stop, 0.5)),
		HalfPointDB:  mathutil.GainToDB(resp.At(0.25)),
	}, nil
}
