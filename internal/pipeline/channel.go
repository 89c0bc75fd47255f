// Package pipeline runs one audio channel through the clipper: DC blocking,
// gain staging, oversampled waveshaping and a latency-aligned dry/wet mix.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-clipper/internal/oversample"
	"github.com/tphakala/go-audio-clipper/internal/params"
	"github.com/tphakala/go-audio-clipper/internal/shaper"
)

// ErrInvalidBlockLength indicates a block whose source and destination
// lengths differ or exceed the configured maximum.
var ErrInvalidBlockLength = errors.New("invalid block length")

// ErrInvalidChannelConfig indicates unusable channel settings.
var ErrInvalidChannelConfig = errors.New("invalid channel config")

// ChannelConfig fixes the settings a Channel allocates for.
type ChannelConfig struct {
	SampleRate   float64
	MaxBlockSize int
	Factor       oversample.Factor

	// FastShaper selects the shared lookup table instead of the exact
	// power-law curve.
	FastShaper bool
}

// Channel processes one channel. It owns all of its state, so separate
// channels may run on separate goroutines, but a single Channel must be
// driven by one caller at a time.
type Channel struct {
	cfg     ChannelConfig
	engine  *oversample.Engine
	table   *shaper.Table
	latency int

	buf      blockBuffers
	dryDelay *delayLine
	wetDelay *delayLine // aligns the base-rate path when oversampling is off
	dc       shaper.DCBlocker

	inMeter  *Meter
	outMeter *Meter

	// Gains used at the end of the previous block, ramped from.
	last    Gains
	primed  bool
	bypass  bool
	overOff bool
}

// NewChannel allocates every buffer the channel will use.
func NewChannel(cfg ChannelConfig) (*Channel, error) {
	if !(cfg.SampleRate > 0) {
		return nil, fmt.Errorf("%w: sample rate %g", ErrInvalidChannelConfig, cfg.SampleRate)
	}
	if cfg.MaxBlockSize < 1 {
		return nil, fmt.Errorf("%w: max block size %d", ErrInvalidChannelConfig, cfg.MaxBlockSize)
	}

	engine, err := oversample.NewEngine(cfg.Factor, cfg.MaxBlockSize)
	if err != nil {
		return nil, fmt.Errorf("oversampler: %w", err)
	}

	latency := engine.Latency()
	dry, err := newDelayLine(latency)
	if err != nil {
		return nil, err
	}
	wet, err := newDelayLine(latency)
	if err != nil {
		return nil, err
	}

	c := &Channel{
		cfg:      cfg,
		engine:   engine,
		latency:  latency,
		buf:      newBlockBuffers(cfg.MaxBlockSize, int(cfg.Factor)),
		dryDelay: dry,
		wetDelay: wet,
		inMeter:  NewMeter(cfg.SampleRate),
		outMeter: NewMeter(cfg.SampleRate),
	}
	if cfg.FastShaper {
		c.table = shaper.SharedTable()
	}

	return c, nil
}

// Latency returns the channel's delay in samples. It depends only on the
// factor, never on parameters or block size.
func (c *Channel) Latency() int { return c.latency }

// Factor returns the oversampling factor.
func (c *Channel) Factor() oversample.Factor { return c.cfg.Factor }

// InputMeter returns the input peak meter.
func (c *Channel) InputMeter() *Meter { return c.inMeter }

// OutputMeter returns the output peak meter.
func (c *Channel) OutputMeter() *Meter { return c.outMeter }

// Process clips src into dst using the snapshot p. dst and src must have
// the same length, at most MaxBlockSize, and may alias. Process never
// allocates or blocks.
func (c *Channel) Process(dst, src []float32, p *params.Values) error {
	n := len(src)
	if len(dst) != n || n > c.cfg.MaxBlockSize {
		return fmt.Errorf("%w: src %d dst %d max %d", ErrInvalidBlockLength, n, len(dst), c.cfg.MaxBlockSize)
	}
	if n == 0 {
		return nil
	}

	c.inMeter.Process(src)

	if p.Bypass {
		c.processBypass(dst, src)
		c.outMeter.Process(dst)
		return nil
	}
	if c.bypass {
		// Filter history went stale while bypassed.
		c.engine.Reset()
		c.wetDelay.Reset()
		c.bypass = false
	}

	work := c.buf.work[:n]
	dry := c.buf.dry[:n]

	shaper.Sanitize(work, src)
	if p.DCBlock {
		c.dc.Process(work)
	}
	c.dryDelay.Process(dry, work)

	g := DeriveGains(p)
	if !c.primed {
		c.last = g
		c.primed = true
	}

	rampGain(work, c.last.Pre, g.Pre)
	if err := c.shape(work, g.Hardness, p.Oversampling); err != nil {
		return err
	}
	rampGain(work, c.last.Post, g.Post)
	mixInto(dst, dry, work, c.last.Mix, g.Mix)

	c.last = g
	c.outMeter.Process(dst)
	return nil
}

// shape runs the waveshaper on work in place, oversampled when enabled.
// With oversampling off the result goes through a delay of the same
// latency so the reported latency holds either way.
func (c *Channel) shape(work []float32, hardness float32, oversampled bool) error {
	off := !oversampled || c.cfg.Factor == oversample.Factor1x
	if off != c.overOff {
		c.engine.Reset()
		c.wetDelay.Reset()
		c.overOff = off
	}

	if off {
		c.applyCurve(work, work, hardness)
		c.wetDelay.Process(work, work)
		return nil
	}

	up := c.buf.up[:int(c.cfg.Factor)*len(work)]
	if err := c.engine.Upsample(up, work); err != nil {
		return fmt.Errorf("upsample: %w", err)
	}
	c.applyCurve(up, up, hardness)
	if err := c.engine.Downsample(work, up); err != nil {
		return fmt.Errorf("downsample: %w", err)
	}
	return nil
}

func (c *Channel) applyCurve(dst, src []float32, hardness float32) {
	if c.table != nil {
		c.table.Curve(hardness).ApplyBlock(dst, src)
		return
	}
	shaper.NewCurve(hardness).ApplyBlock(dst, src)
}

// processBypass passes src through the dry delay, only replacing
// non-finite samples.
func (c *Channel) processBypass(dst, src []float32) {
	c.bypass = true
	c.primed = false
	work := c.buf.work[:len(src)]
	shaper.Sanitize(work, src)
	c.dryDelay.Process(dst, work)
}

// Reset clears all signal history: filters, delays, DC blocker, meters
// and gain ramps.
func (c *Channel) Reset() {
	c.engine.Reset()
	c.dryDelay.Reset()
	c.wetDelay.Reset()
	c.dc.Reset()
	c.inMeter.Reset()
	c.outMeter.Reset()
	c.last = Gains{}
	c.primed = false
	c.bypass = false
	c.overOff = false
}
