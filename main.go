package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/Alextopher/hzwave/synth"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		slog.Error("invalid options", "err", err)
		os.Exit(2)
	}

	level, _ := resolveLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		slog.Error("hzwave failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *Config) error {
	effect, duration, err := cfg.Effect()
	if err != nil {
		return err
	}

	p := effect.NewProcessor(duration,
		synth.WithUpstream(synth.FixedRate(cfg.Rate)),
		synth.WithLogger(slog.Default()),
	)
	slog.Info("synthesizing",
		"waveform", effect.Waveform,
		"duration", duration,
		"rate", cfg.Rate,
		"frames", p.Len(),
	)

	if cfg.Out != "" {
		if err := writeWAV(cfg.Out, p); err != nil {
			return err
		}
		slog.Info("wrote wav", "out", cfg.Out)
	}

	if cfg.Play {
		return play(p)
	}
	return nil
}

func writeWAV(path string, p *synth.Processor) error {
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := synth.Render(f, p); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write WAV data to a terminal")
	}

	// the encoder seeks back to patch the header, so stage in a file first
	tmp, err := os.CreateTemp("", "hzwave-*.wav")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := synth.Render(tmp, p); err != nil {
		return err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err = io.Copy(os.Stdout, tmp)
	return err
}

func play(p *synth.Processor) error {
	sr := p.SampleRate()
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return errors.Wrap(err, "initializing speaker")
	}

	s := synth.NewStreamer(p)
	if err := s.Seek(0); err != nil {
		return err
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))
	<-done

	return s.Err()
}
