package synth

import (
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// Render writes the whole stream of p, from frame 0 to Len, as a 16-bit stereo
// WAV file.
func Render(w io.WriteSeeker, p *Processor) error {
	sr := p.SampleRate()
	if sr <= 0 {
		return errors.Wrapf(ErrInvalidSampleRate, "got %d", int(sr))
	}

	p.SetPosition(0)
	s := NewStreamer(p)

	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, s, format); err != nil {
		return errors.Wrap(err, "encoding wav")
	}

	return errors.Wrap(s.Err(), "synthesizing")
}
