package synth

import "github.com/pkg/errors"

var (
	ErrInvalidSampleRate = errors.New("synth: sample rate must be positive")
	ErrOddLength         = errors.New("synth: read length must be a whole number of stereo frames")
	ErrShortBuffer       = errors.New("synth: read range outside of buffer")
	ErrFrequencyTooHigh  = errors.New("synth: samplerate must be at least 2 times greater than frequency")
)
