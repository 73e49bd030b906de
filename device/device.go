// Package device defines the boundary to a hardware-configured PCM playback
// stream. Backends live in package speaker; the playback driver in package
// player only ever sees the Device interface.
package device

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ttencate/piep"
)

// Failure signals a backend may report from Write and Resume. Backends map
// their native error codes onto these; anything else is treated as fatal by
// the playback driver. Wrapped errors are matched through errors.Cause.
var (
	// ErrTryAgain means the device briefly had no room for more data. Rare
	// under blocking writes; the driver retries without delay.
	ErrTryAgain = errors.New("device not ready, try again")

	// ErrUnderrun means the device buffer drained before new data arrived.
	// The stream needs a Prepare before writes continue.
	ErrUnderrun = errors.New("buffer underrun")

	// ErrSuspended means the stream was paused by the driver or a power
	// event and needs a Resume handshake followed by a Prepare.
	ErrSuspended = errors.New("stream suspended")
)

// Request carries the timing hints for opening a device. Every field is a
// hint; the device answers with the nearest configuration it supports.
type Request struct {
	SampleRate     piep.SampleRate
	BufferDuration time.Duration
	PeriodDuration time.Duration
}

// Defaulted fills in unset fields: 44.1 kHz, a three second buffer and a
// period of one third of the buffer.
func (r Request) Defaulted() Request {
	if r.SampleRate <= 0 {
		r.SampleRate = 44100
	}
	if r.BufferDuration <= 0 {
		r.BufferDuration = 3 * time.Second
	}
	if r.PeriodDuration <= 0 {
		r.PeriodDuration = r.BufferDuration / 3
	}
	return r
}

// Config is the negotiated device configuration, fixed for the life of the
// stream. PeriodFrames is the device's transfer chunk size and therefore the
// clip length to synthesize.
type Config struct {
	SampleRate   piep.SampleRate
	PeriodFrames int
}

// Device is an open playback stream. Write blocks until the device has
// accepted all samples or fails with one of the errors above. Prepare resets
// the stream after an underrun; Resume restarts it after a suspend.
type Device interface {
	Write(samples []int16) (n int, err error)
	Prepare() error
	Resume() error
	Close() error
}
