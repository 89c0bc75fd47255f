package clipper

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tphakala/go-audio-clipper/internal/pipeline"
)

// ErrInvalidConfig indicates invalid processor configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrInvalidBuffer indicates a channel count or block length that does not
// match the processor.
var ErrInvalidBuffer = errors.New("invalid audio buffer")

// Config holds processor configuration. It is fixed for the processor's
// lifetime; create a new processor to change it.
type Config struct {
	// SampleRate is the host sample rate in Hz.
	SampleRate float64

	// Channels is the number of audio channels to process.
	Channels int

	// Factor is the oversampling factor. The runtime oversampling
	// parameter can switch between Factor and 1x without changing latency.
	Factor Factor

	// MaxBlockSize bounds one internal processing pass. Longer blocks
	// are split. Buffers are sized for it once, at construction.
	MaxBlockSize int

	// FastShaper replaces the exact waveshaper curve with a shared
	// interpolated lookup table.
	FastShaper bool

	// EnableParallel enables parallel channel processing.
	// When true, channels are processed concurrently using goroutines.
	// Has no effect on mono audio.
	EnableParallel bool

	// Params are the initial parameter values. Nil selects the defaults.
	Params *Values
}

// DefaultConfig returns a 4x oversampled configuration with default
// parameters and the original plugin's 64-sample block size.
func DefaultConfig(sampleRate float64, channels int) *Config {
	return &Config{
		SampleRate:   sampleRate,
		Channels:     channels,
		Factor:       Factor4x,
		MaxBlockSize: pipeline.DefaultMaxBlockSize,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !(c.SampleRate >= minSampleRate && c.SampleRate <= maxSampleRate) {
		return fmt.Errorf("%w: sample rate %g must be between %g and %g",
			ErrInvalidConfig, c.SampleRate, minSampleRate, maxSampleRate)
	}
	if c.Channels < 1 || c.Channels > maxChannels {
		return fmt.Errorf("%w: channels %d must be between 1 and %d",
			ErrInvalidConfig, c.Channels, maxChannels)
	}
	if !c.Factor.Valid() {
		return fmt.Errorf("%w: oversampling factor %d must be 1, 2 or 4",
			ErrInvalidConfig, int(c.Factor))
	}
	if c.MaxBlockSize < minBlockSize || c.MaxBlockSize > maxBlockSize {
		return fmt.Errorf("%w: max block size %d must be between %d and %d",
			ErrInvalidConfig, c.MaxBlockSize, minBlockSize, maxBlockSize)
	}
	return nil
}

// Processor clips planar multi-channel audio.
type Processor struct {
	config   Config
	channels []*pipeline.Channel
	params   *ParamStore
	log      *logrus.Entry

	// Per-channel results of a parallel pass, reused across calls.
	errs []error
	wg   sync.WaitGroup
}

// New creates a processor. All buffers and filter state are allocated here.
func New(config *Config) (*Processor, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	initial := DefaultValues()
	if config.Params != nil {
		initial = *config.Params
	}

	p := &Processor{
		config:   *config,
		channels: make([]*pipeline.Channel, config.Channels),
		params:   newParamStore(initial),
		errs:     make([]error, config.Channels),
		log: logrus.WithFields(logrus.Fields{
			"package":  "clipper",
			"channels": config.Channels,
			"factor":   config.Factor.String(),
		}),
	}
	p.config.Params = nil

	for ch := range p.channels {
		c, err := pipeline.NewChannel(pipeline.ChannelConfig{
			SampleRate:   config.SampleRate,
			MaxBlockSize: config.MaxBlockSize,
			Factor:       config.Factor,
			FastShaper:   config.FastShaper,
		})
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		p.channels[ch] = c
	}

	p.log.WithFields(logrus.Fields{
		"function":       "New",
		"sample_rate":    config.SampleRate,
		"max_block_size": config.MaxBlockSize,
		"latency":        p.Latency(),
		"fast_shaper":    config.FastShaper,
		"parallel":       config.EnableParallel,
	}).Info("Clipper processor created")

	return p, nil
}

// Process clips src into dst, one slice per channel. Every slice must have
// the same length; dst[ch] may be src[ch]. All channels see the same
// parameter snapshot, loaded once per call.
//
// Sequential processing never allocates. Parallel processing starts one
// goroutine per channel and call.
func (p *Processor) Process(dst, src [][]float32) error {
	if err := p.checkBuffers(dst, src); err != nil {
		return err
	}
	values := p.params.Load()

	if !p.config.EnableParallel || len(src) <= 1 {
		for ch := range src {
			if err := p.processChannel(ch, dst[ch], src[ch], values); err != nil {
				return fmt.Errorf("channel %d: %w", ch, err)
			}
		}
		return nil
	}

	for ch := range src {
		p.wg.Add(1)
		go func(channel int) {
			defer p.wg.Done()
			p.errs[channel] = p.processChannel(channel, dst[channel], src[channel], values)
		}(ch)
	}
	p.wg.Wait()

	for ch, err := range p.errs {
		if err != nil {
			clear(p.errs)
			return fmt.Errorf("channel %d: %w", ch, err)
		}
	}
	return nil
}

// processChannel runs one channel through the pipeline in passes of at
// most MaxBlockSize samples.
func (p *Processor) processChannel(ch int, dst, src []float32, values *Values) error {
	c := p.channels[ch]
	step := p.config.MaxBlockSize
	for start := 0; start < len(src); start += step {
		end := min(start+step, len(src))
		if err := c.Process(dst[start:end], src[start:end], values); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) checkBuffers(dst, src [][]float32) error {
	if len(src) != len(p.channels) || len(dst) != len(src) {
		return fmt.Errorf("%w: expected %d channels, got src %d dst %d",
			ErrInvalidBuffer, len(p.channels), len(src), len(dst))
	}
	n := len(src[0])
	for ch := range src {
		if len(src[ch]) != n || len(dst[ch]) != n {
			return fmt.Errorf("%w: channel %d has src %d dst %d samples, want %d",
				ErrInvalidBuffer, ch, len(src[ch]), len(dst[ch]), n)
		}
	}
	return nil
}

// Latency returns the processor's delay in samples. It is constant for
// the processor's lifetime.
func (p *Processor) Latency() int {
	return p.channels[0].Latency()
}

// Config returns a copy of the processor's configuration. Params is nil;
// use Values for the current parameters.
func (p *Processor) Config() Config {
	return p.config
}

// Reset clears all signal history, as on transport stop. Parameters are
// kept.
func (p *Processor) Reset() {
	for _, c := range p.channels {
		c.Reset()
	}
	p.log.WithField("function", "Reset").Debug("Clipper state reset")
}

// Params returns the parameter store. It is safe for concurrent use.
func (p *Processor) Params() *ParamStore {
	return p.params
}

// Values returns the current parameter snapshot.
func (p *Processor) Values() Values {
	return *p.params.Load()
}

// SetParam sets one parameter by plain value.
func (p *Processor) SetParam(id ParamID, plain float64) error {
	if err := p.params.Set(id, plain); err != nil {
		return fmt.Errorf("set %s: %w", id, err)
	}
	p.log.WithFields(logrus.Fields{
		"function": "SetParam",
		"param":    id.String(),
		"value":    p.params.Load().Get(id),
	}).Debug("Parameter changed")
	return nil
}

// SetParams replaces every parameter at once.
func (p *Processor) SetParams(v Values) {
	p.params.Replace(v)
}
