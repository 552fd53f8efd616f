// Package synth renders animated periodic waveforms into interleaved stereo
// sample buffers.
package synth

import (
	"time"

	"github.com/Alextopher/hzwave/animation"
	"github.com/Alextopher/hzwave/waveform"
)

const (
	MinFrequency = 10
	MaxFrequency = 20000

	MinAmplitude = 0
	MaxAmplitude = 100

	DefaultFrequency = 440
	DefaultAmplitude = 50
)

// Effect is the user-facing configuration of a waveform generator. The
// parameters are shared with whoever edits them; processors only read
// snapshots.
type Effect struct {
	// Frequency in Hz.
	Frequency animation.Parameter
	// Amplitude in percent, 0-100.
	Amplitude animation.Parameter
	Waveform  waveform.Type
}

// NewEffect returns an effect producing a 440 Hz sine at 50% amplitude.
func NewEffect() *Effect {
	return &Effect{
		Frequency: animation.NewAnimation(DefaultFrequency, MinFrequency, MaxFrequency),
		Amplitude: animation.NewAnimation(DefaultAmplitude, MinAmplitude, MaxAmplitude),
		Waveform:  waveform.Sine,
	}
}

func (e *Effect) Label() string {
	return "Waveform (frequency)"
}

// NewProcessor starts a synthesis session of the given duration.
func (e *Effect) NewProcessor(duration time.Duration, opts ...Option) *Processor {
	return NewProcessor(e, duration, opts...)
}
