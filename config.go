package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Alextopher/hzwave/animation"
	"github.com/Alextopher/hzwave/synth"
	"github.com/Alextopher/hzwave/waveform"
)

// Config holds the command line options.
type Config struct {
	Wave     string
	Freq     string
	Amp      string
	Duration time.Duration
	Rate     int
	Out      string
	MIDI     string
	Play     bool
	LogLevel string

	durationSet bool
}

func parseConfig(args []string, output io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("hzwave", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Wave, "wave", "sine", "waveform: sine, square, triangle or sawtooth")
	fs.StringVar(&cfg.Freq, "freq", "440", "frequency in Hz, comma separated values are spread over the duration")
	fs.StringVar(&cfg.Amp, "amp", "50", "amplitude in percent, comma separated values are spread over the duration")
	fs.DurationVar(&cfg.Duration, "duration", time.Second, "length of the tone")
	fs.IntVar(&cfg.Rate, "rate", int(synth.DefaultSampleRate), "sample rate")
	fs.StringVar(&cfg.Out, "out", "", "write a WAV file (- for stdout)")
	fs.StringVar(&cfg.MIDI, "midi", "", "take frequency and amplitude from the notes of a MIDI file")
	fs.BoolVar(&cfg.Play, "play", false, "play through the speaker")
	fs.StringVar(&cfg.LogLevel, "log", "info", "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "duration" {
			cfg.durationSet = true
		}
	})
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments: %v", fs.Args())
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Out == "" && !c.Play {
		return errors.New("nothing to do: pass -out and/or -play")
	}
	if c.Rate <= 0 {
		return errors.Wrapf(synth.ErrInvalidSampleRate, "-rate %d", c.Rate)
	}
	if c.Duration < 0 {
		return errors.Errorf("-duration must not be negative, got %v", c.Duration)
	}
	if _, err := waveform.ParseType(c.Wave); err != nil {
		return errors.Wrap(err, "-wave")
	}
	if _, err := resolveLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Effect builds the effect described by the options and the duration to
// render. With -midi and no explicit -duration the notes decide the length.
func (c *Config) Effect() (*synth.Effect, time.Duration, error) {
	e := synth.NewEffect()
	e.Waveform, _ = waveform.ParseType(c.Wave)

	freq := e.Frequency.(*animation.Animation)
	amp := e.Amplitude.(*animation.Animation)

	if c.MIDI != "" {
		notes, err := animation.ReadSMFFile(c.MIDI)
		if err != nil {
			return nil, 0, err
		}
		f, a, err := animation.FromNotes(notes)
		if err != nil {
			return nil, 0, err
		}
		freq.Set(f)
		amp.Set(a)

		duration := c.Duration
		if !c.durationSet {
			duration = 0
			for _, n := range notes {
				if end := n.Start + n.Duration; end > duration {
					duration = end
				}
			}
		}
		return e, duration, nil
	}

	values, err := parseValues(c.Freq)
	if err != nil {
		return nil, 0, errors.Wrap(err, "-freq")
	}
	if err := freq.SetValues(values...); err != nil {
		return nil, 0, errors.Wrap(err, "-freq")
	}

	if values, err = parseValues(c.Amp); err != nil {
		return nil, 0, errors.Wrap(err, "-amp")
	}
	if err := amp.SetValues(values...); err != nil {
		return nil, 0, errors.Wrap(err, "-amp")
	}

	return e, c.Duration, nil
}

func parseValues(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, animation.ErrNoKeyframes
	}

	fields := strings.Split(s, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "value %q", f)
		}
		values = append(values, v)
	}
	return values, nil
}

func resolveLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}
