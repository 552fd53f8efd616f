package synth

import (
	"github.com/faiface/beep"
	"github.com/pkg/errors"
)

var _ beep.StreamSeeker = (*Streamer)(nil)

// Streamer plays a Processor as a beep.StreamSeeker. Unlike the processor it
// stops at Len. Positions are in frames.
type Streamer struct {
	p   *Processor
	buf []float32
	err error
}

func NewStreamer(p *Processor) *Streamer {
	return &Streamer{p: p}
}

func (s *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}

	remaining := s.p.Len() - s.p.Position()/2
	if remaining <= 0 {
		return 0, false
	}

	n = len(samples)
	if int64(n) > remaining {
		n = int(remaining)
	}

	if cap(s.buf) < 2*n {
		s.buf = make([]float32, 2*n)
	}
	buf := s.buf[:2*n]

	if _, err := s.p.Read(buf, 0, len(buf)); err != nil {
		s.err = err
		return 0, false
	}

	for i := range samples[:n] {
		samples[i][0] = float64(buf[2*i])
		samples[i][1] = float64(buf[2*i+1])
	}

	return n, true
}

func (s *Streamer) Err() error {
	return s.err
}

func (s *Streamer) Len() int {
	return int(s.p.Len())
}

func (s *Streamer) Position() int {
	return int(s.p.Position() / 2)
}

func (s *Streamer) Seek(p int) error {
	if p < 0 || p > s.Len() {
		return errors.Errorf("synth: seek position %v out of range [%v, %v]", p, 0, s.Len())
	}
	s.p.SetPosition(2 * int64(p))
	return nil
}
