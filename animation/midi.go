package animation

import (
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/reader"
)

var ErrNoNotes = errors.New("animation: no notes")

// Note is one sounded MIDI key.
type Note struct {
	Key      uint8
	Velocity uint8
	Start    time.Duration
	Duration time.Duration
}

// KeyToFrequency converts a MIDI key number to Hz (A4 = key 69 = 440 Hz).
func KeyToFrequency(key uint8) float64 {
	return 440 * math.Pow(2, (float64(key)-69)/12)
}

// VelocityToAmplitude maps a MIDI velocity onto the 0-100 amplitude scale.
func VelocityToAmplitude(vel uint8) float64 {
	return float64(vel) / 127 * 100
}

// ReadSMFFile collects every note in a standard MIDI file, ordered by start
// time. A note-on with velocity 0 ends the note, as does retriggering the same
// key on the same track and channel.
func ReadSMFFile(filename string) ([]Note, error) {
	type voiceKey struct {
		track   int16
		channel uint8
		key     uint8
	}

	var rd *reader.Reader
	open := make(map[voiceKey]Note)
	notes := make([]Note, 0)

	at := func(p *reader.Position) time.Duration {
		rt := reader.TimeAt(rd, p.AbsoluteTicks)
		if rt == nil {
			return 0
		}
		return *rt
	}

	end := func(p *reader.Position, channel, key uint8) {
		k := voiceKey{p.Track, channel, key}
		n, ok := open[k]
		if !ok {
			return
		}
		delete(open, k)

		n.Duration = at(p) - n.Start
		notes = append(notes, n)
	}

	rd = reader.New(reader.NoLogger(),
		reader.NoteOn(func(p *reader.Position, channel, key, vel uint8) {
			end(p, channel, key)
			if vel == 0 {
				return
			}
			open[voiceKey{p.Track, channel, key}] = Note{Key: key, Velocity: vel, Start: at(p)}
		}),
		reader.NoteOff(func(p *reader.Position, channel, key, vel uint8) {
			end(p, channel, key)
		}),
	)

	if err := reader.ReadSMFFile(rd, filename); err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}

	if len(notes) == 0 {
		return nil, errors.Wrap(ErrNoNotes, filename)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Start < notes[j].Start
	})

	return notes, nil
}

// FromNotes plays notes one at a time: the frequency curve jumps to each
// note's pitch and the amplitude curve follows its velocity, dropping to 0
// in the gaps between notes. When notes overlap the later one takes over.
// notes must be ordered by Start.
func FromNotes(notes []Note) (freq, amp *Curve, err error) {
	if len(notes) == 0 {
		return nil, nil, ErrNoNotes
	}

	freqKeys := make([]Keyframe, 0, len(notes))
	ampKeys := make([]Keyframe, 0, 2*len(notes)+1)

	if notes[0].Start > 0 {
		ampKeys = append(ampKeys, Keyframe{At: 0, Value: 0})
	}

	for i, n := range notes {
		freqKeys = append(freqKeys, Keyframe{At: n.Start, Value: KeyToFrequency(n.Key)})
		ampKeys = append(ampKeys, Keyframe{At: n.Start, Value: VelocityToAmplitude(n.Velocity)})

		stop := n.Start + n.Duration
		if i+1 < len(notes) && notes[i+1].Start <= stop {
			continue
		}
		ampKeys = append(ampKeys, Keyframe{At: stop, Value: 0})
	}

	if freq, err = NewCurve(Hold, freqKeys...); err != nil {
		return nil, nil, err
	}
	if amp, err = NewCurve(Hold, ampKeys...); err != nil {
		return nil, nil, err
	}
	return freq, amp, nil
}
