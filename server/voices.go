package main

import (
	"github.com/Alextopher/hzwave/animation"
)

// assign spreads notes over n monophonic voices. Each note goes to a voice
// that is silent when the note starts; if none is, it goes to the voice that
// falls silent first and cuts its current note short.
func assign(notes []animation.Note, n int) [][]animation.Note {
	if n <= 0 {
		panic("n must be > 0")
	}

	voices := make([][]animation.Note, n)
	busyUntil := make([]int64, n)

	for _, note := range notes {
		start := int64(note.Start)

		pick := -1
		for i := range voices {
			if busyUntil[i] <= start {
				pick = i
				break
			}
		}
		if pick < 0 {
			pick = 0
			for i := 1; i < n; i++ {
				if busyUntil[i] < busyUntil[pick] {
					pick = i
				}
			}
			last := &voices[pick][len(voices[pick])-1]
			last.Duration = note.Start - last.Start
		}

		voices[pick] = append(voices[pick], note)
		busyUntil[pick] = start + int64(note.Duration)
	}

	return voices
}
