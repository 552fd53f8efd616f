// Package waveform holds the periodic shapes the synthesizer can produce.
package waveform

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Type selects one of the supported periodic shapes.
type Type int

const (
	Sine Type = iota
	Square
	Triangle
	Sawtooth
)

var ErrUnknownType = errors.New("unknown waveform type")

var names = [...]string{
	Sine:     "sine",
	Square:   "square",
	Triangle: "triangle",
	Sawtooth: "sawtooth",
}

var displayNames = [...]string{
	Sine:     "Sine wave",
	Square:   "Square wave",
	Triangle: "Triangle wave",
	Sawtooth: "Sawtooth wave",
}

// Types lists every valid Type in declaration order.
func Types() []Type {
	return []Type{Sine, Square, Triangle, Sawtooth}
}

func (t Type) Valid() bool {
	return t >= Sine && t <= Sawtooth
}

func (t Type) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return names[t]
}

// DisplayName is the label shown to users picking a waveform.
func (t Type) DisplayName() string {
	if !t.Valid() {
		return "Unknown"
	}
	return displayNames[t]
}

// ParseType accepts the lower case name of a waveform ("sine", "square", ...).
// Matching ignores case and surrounding whitespace.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Types() {
		if names[t] == name {
			return t, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownType, "%q", s)
}

// Value evaluates the waveform at time t (seconds) for frequency f (Hz).
// The phase is derived from absolute time, so the same (f, t) always gives the
// same value no matter what was evaluated before it.
//
// No band-limiting is applied; Square and Sawtooth alias at high frequencies.
// An unrecognized Type yields 0.
func Value(typ Type, f, t float64) float64 {
	switch typ {
	case Sine:
		return math.Sin(2 * math.Pi * f * t)
	case Square:
		return sign(math.Sin(2 * math.Pi * f * t))
	case Triangle:
		x := f * t
		return 2*math.Abs(2*(x-math.Floor(x+0.5))) - 1
	case Sawtooth:
		x := f * t
		return 2*(x-math.Floor(x)) - 1
	default:
		return 0
	}
}

// sign returns -1, 0 or 1. NaN maps to 0.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
