package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	clipper "github.com/tphakala/go-audio-clipper"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	if format.NumChannels < 1 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid channel count %d in %s", format.NumChannels, path)
	}
	bitDepth := int(decoder.BitDepth)
	if _, ok := maxValues[bitDepth]; !ok {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported bit depth %d in %s", bitDepth, path)
	}

	// Duration is only used for progress reporting
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}
	totalFrames := int64(duration.Seconds() * float64(format.SampleRate))

	logrus.WithFields(logrus.Fields{
		"function":    "openWAVInput",
		"path":        path,
		"sample_rate": format.SampleRate,
		"channels":    format.NumChannels,
		"bit_depth":   bitDepth,
	}).Debug("Opened input")

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: totalFrames,
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates the output file and a PCM encoder for it.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved samples to the output file.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	if len(samples) == 0 {
		return nil
	}
	w.buf.Data = samples
	return w.encoder.Write(w.buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	return errors.Join(w.encoder.Close(), w.file.Close())
}

// clipBuffers holds all preallocated buffers for one file.
type clipBuffers struct {
	intBuffer    *audio.IntBuffer
	channelBufs  [][]float32
	outputIntBuf []int
	invMaxVal    float64
	maxVal       float64
}

// newClipBuffers preallocates every processing buffer.
func newClipBuffers(channels, bitDepth int, format *audio.Format) *clipBuffers {
	channelBufs := make([][]float32, channels)
	for ch := range channels {
		channelBufs[ch] = make([]float32, bufferSize)
	}

	maxVal := getMaxValue(bitDepth)
	return &clipBuffers{
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, bufferSize*channels),
			Format: format,
		},
		channelBufs:  channelBufs,
		outputIntBuf: make([]int, bufferSize*channels),
		invMaxVal:    1.0 / maxVal,
		maxVal:       maxVal,
	}
}

// frames returns the per-channel buffers cut to n frames.
func (b *clipBuffers) frames(n int) [][]float32 {
	out := make([][]float32, len(b.channelBufs))
	for ch, buf := range b.channelBufs {
		out[ch] = buf[:n]
	}
	return out
}

// maxValues maps supported PCM bit depths to their full-scale value.
var maxValues = map[int]float64{
	bitsPerSample16: maxInt16,
	bitsPerSample24: maxInt24,
	bitsPerSample32: maxInt32,
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	if v, ok := maxValues[bitDepth]; ok {
		return v
	}
	return maxInt16
}

// deinterleaveInto converts interleaved int samples into preallocated
// per-channel buffers.
func deinterleaveInto(data []int, channelBufs [][]float32, numChannels, frames int, invMaxVal float64) {
	if numChannels == monoChannels {
		buf := channelBufs[0]
		for i := range frames {
			buf[i] = float32(float64(data[i]) * invMaxVal)
		}
		return
	}

	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			channelBufs[ch][i] = float32(float64(data[base+ch]) * invMaxVal)
		}
	}
}

// interleaveInto converts per-channel float slices into dst, clamping to
// full scale and rounding to the nearest integer. Returns the number of
// elements written.
func interleaveInto(channels [][]float32, dst []int, maxVal float64) int {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return 0
	}

	numChannels := len(channels)
	frames := len(channels[0])
	total := frames * numChannels
	if len(dst) < total {
		return 0 // Caller should handle this
	}

	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			sample := max(-1.0, min(1.0, float64(channels[ch][i])))
			dst[base+ch] = int(math.Round(sample * maxVal))
		}
	}
	return total
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalFrames: totalFrames,
		verbose:     verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		logrus.WithField("percent", progress).Info("Progress")
		p.lastProgress = progress
	}
}

// paramFlags collects plain parameter values given on the command line.
type paramFlags map[clipper.ParamID]float64

// register adds one flag per clipper parameter. Values are parsed the way
// a host would parse typed-in text, so "-drive 12", "-drive '12 dB'" and
// "-dc-block on" all work.
func (f paramFlags) register(fs flagSet) {
	for _, spec := range clipper.Params() {
		usage := fmt.Sprintf("%s (%s to %s, default %s)",
			spec.Name, spec.Format(spec.Min), spec.Format(spec.Max), spec.Format(spec.Default))
		fs.Func(spec.Key, usage, func(text string) error {
			v, err := spec.Parse(text)
			if err != nil {
				return err
			}
			f[spec.ID] = v
			return nil
		})
	}
}

// apply sets every collected value on p.
func (f paramFlags) apply(p *clipper.Processor) error {
	for id, v := range f {
		if err := p.SetParam(id, v); err != nil {
			return err
		}
	}
	return nil
}

// flagSet is the subset of *flag.FlagSet used to register parameters.
type flagSet interface {
	Func(name, usage string, fn func(string) error)
}

// latencyTrimmer drops the first latency output frames so the written
// file lines up with the input.
type latencyTrimmer struct {
	remaining int
}

// trim returns the frame offset at which a block of n frames starts to be
// written, consuming the latency still to drop.
func (t *latencyTrimmer) trim(n int) int {
	skip := min(t.remaining, n)
	t.remaining -= skip
	return skip
}

// sliceFrames cuts each channel to [start, end).
func sliceFrames(channels [][]float32, start, end int) [][]float32 {
	out := make([][]float32, len(channels))
	for ch, buf := range channels {
		out[ch] = buf[start:end]
	}
	return out
}
