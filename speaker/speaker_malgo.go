//go:build malgo
// +build malgo

// Package speaker implements playback devices backed by physical speakers.
package speaker

import (
	"io"

	"github.com/gen2brain/malgo"
	"github.com/pkg/errors"

	"github.com/ttencate/piep/device"
)

const bitDepthInBytes = 2

// malgoDevice plays through miniaudio. Like the oto backend it bridges the
// push-model Write onto a pull-model data callback with an io.Pipe.
type malgoDevice struct {
	ctx *malgo.AllocatedContext
	dev *malgo.Device
	pw  *io.PipeWriter
	buf []byte
}

// Open opens the named playback device with the requested timing. A name
// other than "default" is matched against the miniaudio playback device list.
//
// miniaudio accepts any sample rate and performs no period negotiation, so
// the negotiated rate equals the request and the period size is derived from
// the period-duration hint.
func Open(name string, req device.Request) (device.Device, device.Config, error) {
	req = req.Defaulted()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, device.Config{}, errors.Wrap(err, "initialize context")
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(req.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	if name != "" && name != "default" {
		infos, err := ctx.Devices(malgo.Playback)
		if err != nil {
			ctx.Uninit()
			return nil, device.Config{}, errors.Wrap(err, "list playback devices")
		}
		found := false
		for _, info := range infos {
			if info.Name() == name {
				deviceConfig.Playback.DeviceID = info.ID.Pointer()
				found = true
				break
			}
		}
		if !found {
			ctx.Uninit()
			return nil, device.Config{}, errors.Errorf("no playback device named %q", name)
		}
	}

	pr, pw := io.Pipe()
	d := &malgoDevice{ctx: ctx, pw: pw}

	onSamples := func(out, _ []byte, frameCount uint32) {
		// Block until Write delivers a full chunk; fill with silence once
		// the pipe is closed.
		if _, err := io.ReadFull(pr, out); err != nil {
			for i := range out {
				out[i] = 0
			}
		}
	}
	d.dev, err = malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSamples})
	if err != nil {
		ctx.Uninit()
		return nil, device.Config{}, errors.Wrap(err, "initialize device")
	}
	if err := d.dev.Start(); err != nil {
		d.dev.Uninit()
		ctx.Uninit()
		return nil, device.Config{}, errors.Wrap(err, "start device")
	}

	cfg := device.Config{
		SampleRate:   req.SampleRate,
		PeriodFrames: req.SampleRate.N(req.PeriodDuration),
	}
	return d, cfg, nil
}

func (d *malgoDevice) Write(samples []int16) (int, error) {
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

// Prepare is a no-op: the data callback pads missed chunks with silence, so
// there is no stream state to reset after starvation.
func (d *malgoDevice) Prepare() error { return nil }

// Resume restarts a stopped device.
func (d *malgoDevice) Resume() error {
	return errors.Wrap(d.dev.Start(), "restart device")
}

func (d *malgoDevice) Close() error {
	d.pw.Close()
	d.dev.Uninit()
	d.ctx.Uninit()
	return nil
}
