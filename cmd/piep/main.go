// Command piep plays an infinite, seamlessly looped sine tone through the
// default speakers, or renders it to a WAVE file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/ttencate/piep"
	"github.com/ttencate/piep/device"
	"github.com/ttencate/piep/player"
	"github.com/ttencate/piep/speaker"
	"github.com/ttencate/piep/wav"
)

// config is assembled once from the command line and never changes
// afterwards.
type config struct {
	deviceName  string
	frequencyHz float64
	sampleRate  int
	verbose     bool
	wavPath     string
	wavSeconds  float64
}

func main() {
	var cfg config
	flag.StringVar(&cfg.deviceName, "d", "default", "playback device name")
	flag.Float64Var(&cfg.frequencyHz, "f", 440, "tone frequency in Hz")
	flag.IntVar(&cfg.sampleRate, "r", 44100, "output sample rate in Hz")
	flag.BoolVar(&cfg.verbose, "v", false, "verbose output on stderr")
	flag.StringVar(&cfg.wavPath, "o", "", "render to a WAVE file instead of playing")
	flag.Float64Var(&cfg.wavSeconds, "t", 5, "length of the rendered WAVE file in seconds (with -o)")
	flag.Parse()

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "piep:", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	if cfg.frequencyHz <= 0 {
		return errors.Errorf("frequency must be positive, got %g", cfg.frequencyHz)
	}
	if cfg.sampleRate <= 0 {
		return errors.Errorf("sample rate must be positive, got %d", cfg.sampleRate)
	}
	if cfg.wavPath != "" {
		return render(cfg)
	}
	return play(cfg)
}

// play runs until a fatal device error or the process is killed.
func play(cfg config) error {
	dev, devCfg, err := speaker.Open(cfg.deviceName, device.Request{
		SampleRate: piep.SampleRate(cfg.sampleRate),
	})
	if err != nil {
		return errors.Wrap(err, "open device")
	}
	defer dev.Close()

	slog.Debug("device configured",
		"sample_rate", int(devCfg.SampleRate),
		"period_frames", devCfg.PeriodFrames)

	rounded, clip := piep.Synthesize(devCfg.SampleRate, devCfg.PeriodFrames, cfg.frequencyHz)
	slog.Debug("using rounded frequency", "hz", rounded, "clip", clip.Duration(devCfg.SampleRate))

	p := player.Player{Device: dev, Clip: clip}
	return p.Run()
}

func render(cfg config) error {
	rate := piep.SampleRate(cfg.sampleRate)
	if cfg.wavSeconds <= 0 {
		return errors.Errorf("duration must be positive, got %g", cfg.wavSeconds)
	}

	// Same clip length as the playback path, so the rendered file loops the
	// identical waveform.
	req := device.Request{SampleRate: rate}.Defaulted()
	frames := rate.N(req.PeriodDuration)
	rounded, clip := piep.Synthesize(rate, frames, cfg.frequencyHz)
	slog.Debug("using rounded frequency", "hz", rounded)

	loops := int(math.Ceil(cfg.wavSeconds * float64(rate) / float64(frames)))
	if loops < 1 {
		loops = 1
	}

	f, err := os.Create(cfg.wavPath)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	if err := wav.Encode(f, clip, rate, loops); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close output file")
}
