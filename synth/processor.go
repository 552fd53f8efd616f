package synth

import (
	"log/slog"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/pkg/errors"

	"github.com/Alextopher/hzwave/waveform"
)

// DefaultSampleRate is used when no upstream source reports a rate.
const DefaultSampleRate beep.SampleRate = 44100

// Upstream is the audio source a processor is attached to.
type Upstream interface {
	SampleRate() beep.SampleRate
}

// FixedRate is an Upstream that always reports the same rate.
type FixedRate beep.SampleRate

func (r FixedRate) SampleRate() beep.SampleRate {
	return beep.SampleRate(r)
}

type Option func(*Processor)

// WithUpstream makes the processor take its sample rate from u.
func WithUpstream(u Upstream) Option {
	return func(p *Processor) {
		p.upstream = u
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// Processor synthesizes an effect over a fixed-length virtual stream.
//
// Positions are in interleaved values: frame n occupies positions 2n (left)
// and 2n+1 (right). The processor is not safe for concurrent use.
type Processor struct {
	effect   *Effect
	duration time.Duration
	upstream Upstream
	logger   *slog.Logger

	rate    beep.SampleRate
	latched bool

	cursor int64
}

func NewProcessor(effect *Effect, duration time.Duration, opts ...Option) *Processor {
	p := &Processor{
		effect:   effect,
		duration: duration,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SampleRate is the rate the processor synthesizes at. It is read from the
// upstream source on first use and stays fixed for the rest of the session.
func (p *Processor) SampleRate() beep.SampleRate {
	if p.latched {
		return p.rate
	}

	p.rate = DefaultSampleRate
	if p.upstream != nil {
		p.rate = p.upstream.SampleRate()
	}
	p.latched = true

	if p.rate <= 0 {
		p.logger.Warn("upstream reported invalid sample rate", "rate", int(p.rate))
	} else {
		p.logger.Debug("sample rate latched", "rate", int(p.rate), "duration", p.duration)
	}
	return p.rate
}

// Len is the nominal stream length in frames. Negative durations and invalid
// sample rates give 0.
func (p *Processor) Len() int64 {
	sr := p.SampleRate()
	if sr <= 0 || p.duration <= 0 {
		return 0
	}
	return int64(math.Round(float64(sr) * p.duration.Seconds()))
}

// Position returns the cursor in interleaved values.
func (p *Processor) Position() int64 {
	return p.cursor
}

// SetPosition moves the cursor to pos (interleaved values). Any value is
// accepted, including negative and past-the-end positions.
func (p *Processor) SetPosition(pos int64) {
	p.cursor = pos
}

// Read synthesizes count interleaved values into buf[offset:offset+count] and
// advances the cursor by count. Both channels of a frame get the same value.
//
// count must be even. Reading does not stop at Len; frames past the end use
// whatever the parameters evaluate to there. On error nothing is written and
// the cursor does not move.
func (p *Processor) Read(buf []float32, offset, count int) (int, error) {
	sr := p.SampleRate()
	if sr <= 0 {
		return 0, errors.Wrapf(ErrInvalidSampleRate, "got %d", int(sr))
	}
	if offset < 0 || count < 0 || offset+count > len(buf) {
		return 0, errors.Wrapf(ErrShortBuffer, "offset %d count %d len %d", offset, count, len(buf))
	}
	if count%2 != 0 {
		return 0, errors.Wrapf(ErrOddLength, "count %d", count)
	}

	// one snapshot per read so every frame sees the same curves
	freq := p.effect.Frequency.Snapshot()
	amp := p.effect.Amplitude.Snapshot()
	typ := p.effect.Waveform
	total := p.Len()
	rate := int(sr)

	out := buf[offset : offset+count]
	for i := 0; i < count; i += 2 {
		frame := (p.cursor + int64(i)) / 2

		f := freq.Evaluate(frame, total, rate)
		a := amp.Evaluate(frame, total, rate) / 100
		t := float64(frame) / float64(rate)

		v := float32(waveform.Value(typ, f, t) * a)
		out[i] = v
		out[i+1] = v
	}

	p.cursor += int64(count)
	return count, nil
}
