//go:build !malgo
// +build !malgo

// Package speaker implements playback devices backed by physical speakers.
package speaker

import (
	"io"

	"github.com/hajimehoshi/oto/v2"
	"github.com/pkg/errors"

	"github.com/ttencate/piep/device"
)

const bitDepthInBytes = 2

// otoDevice adapts the push-model device.Device onto oto's pull-model
// player. An io.Pipe sits between the two: Write blocks until the player
// goroutine has drained every byte, which gives the same backpressure as a
// blocking hardware write.
type otoDevice struct {
	player oto.Player
	pw     *io.PipeWriter
	buf    []byte
}

// Open opens the named playback device with the requested timing. The oto
// backend plays through the system default device only; build with the malgo
// tag for device selection by name.
//
// oto accepts any sample rate and performs no period negotiation, so the
// negotiated rate equals the request and the period size is derived from the
// period-duration hint.
func Open(name string, req device.Request) (device.Device, device.Config, error) {
	if name != "" && name != "default" {
		return nil, device.Config{}, errors.Errorf("unknown device %q: the oto backend plays through the default device only", name)
	}
	req = req.Defaulted()

	ctx, ready, err := oto.NewContext(int(req.SampleRate), 1, bitDepthInBytes)
	if err != nil {
		return nil, device.Config{}, errors.Wrap(err, "initialize playback context")
	}
	<-ready

	pr, pw := io.Pipe()
	player := ctx.NewPlayer(pr)
	if setter, ok := player.(oto.BufferSizeSetter); ok {
		setter.SetBufferSize(req.SampleRate.N(req.BufferDuration) * bitDepthInBytes)
	}
	player.Play()

	cfg := device.Config{
		SampleRate:   req.SampleRate,
		PeriodFrames: req.SampleRate.N(req.PeriodDuration),
	}
	return &otoDevice{player: player, pw: pw}, cfg, nil
}

func (d *otoDevice) Write(samples []int16) (int, error) {
	if need := bitDepthInBytes * len(samples); cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	buf := d.buf[:bitDepthInBytes*len(samples)]
	for i, s := range samples {
		buf[2*i] = byte(s)
		buf[2*i+1] = byte(s >> 8)
	}
	n, err := d.pw.Write(buf)
	if err != nil {
		return n / bitDepthInBytes, errors.Wrap(err, "write samples")
	}
	return len(samples), nil
}

// Prepare is a no-op: oto players recover from underruns internally.
func (d *otoDevice) Prepare() error { return nil }

// Resume is a no-op: oto players do not surface suspend events.
func (d *otoDevice) Resume() error { return nil }

func (d *otoDevice) Close() error {
	d.pw.Close()
	return errors.Wrap(d.player.Close(), "close player")
}
