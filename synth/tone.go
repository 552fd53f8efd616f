package synth

import (
	"time"

	"github.com/faiface/beep"
	"github.com/pkg/errors"

	"github.com/Alextopher/hzwave/animation"
	"github.com/Alextopher/hzwave/waveform"
)

// Tone creates a streamer which produces a fixed waveform at freq Hz and
// amplitude percent for the given duration.
// The sample rate must be at least two times greater than freq.
func Tone(sr beep.SampleRate, typ waveform.Type, freq, amplitude float64, duration time.Duration) (*Streamer, error) {
	if sr <= 0 {
		return nil, errors.Wrapf(ErrInvalidSampleRate, "got %d", int(sr))
	}
	if freq/float64(sr) >= 1.0/2.0 {
		return nil, errors.Wrapf(ErrFrequencyTooHigh, "%v Hz at %d", freq, int(sr))
	}

	e := &Effect{
		Frequency: animation.Constant(freq),
		Amplitude: animation.Constant(amplitude),
		Waveform:  typ,
	}

	return NewStreamer(e.NewProcessor(duration, WithUpstream(FixedRate(sr)))), nil
}
