// Package player runs the infinite playback loop and recovers from transient
// device faults.
package player

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/ttencate/piep"
	"github.com/ttencate/piep/device"
)

// DefaultResumeBackoff is the wait between resume attempts while a suspended
// device keeps answering "try again".
const DefaultResumeBackoff = time.Second

// state of the playback loop after the last write outcome.
type state int

const (
	stateWriting state = iota
	stateRecoverUnderrun
	stateRecoverSuspend
	stateFatal
)

// transition maps the outcome of a device write to the next loop state.
// Every error maps to exactly one state; unrecognized errors are fatal.
func transition(err error) state {
	switch errors.Cause(err) {
	case nil:
		return stateWriting
	case device.ErrTryAgain:
		// Should not happen with blocking writes; retry without delay.
		return stateWriting
	case device.ErrUnderrun:
		return stateRecoverUnderrun
	case device.ErrSuspended:
		return stateRecoverSuspend
	default:
		return stateFatal
	}
}

// Player writes one clip to a device over and over. The clip is produced once
// by the synthesizer and never modified, so looping it plays a continuous
// tone.
type Player struct {
	Device device.Device
	Clip   piep.Clip

	// ResumeBackoff overrides DefaultResumeBackoff when positive.
	ResumeBackoff time.Duration

	// Log receives recovery diagnostics at debug level. Defaults to
	// slog.Default().
	Log *slog.Logger
}

// Run plays the clip in an infinite loop. Underruns and suspends are
// recovered in place and never surface to the caller; Run returns only on an
// unrecoverable device error, never nil. The returned error names the
// failing device operation.
func (p *Player) Run() error {
	log := p.Log
	if log == nil {
		log = slog.Default()
	}
	backoff := p.ResumeBackoff
	if backoff <= 0 {
		backoff = DefaultResumeBackoff
	}

	for {
		_, err := p.Device.Write(p.Clip)
		switch transition(err) {
		case stateWriting:
			// Write the clip again.
		case stateRecoverUnderrun:
			log.Debug("buffer underrun, preparing device")
			if err := p.Device.Prepare(); err != nil {
				return errors.Wrap(err, "prepare")
			}
		case stateRecoverSuspend:
			log.Debug("stream suspended, resuming device")
			if err := p.resume(backoff); err != nil {
				return err
			}
		case stateFatal:
			return errors.Wrap(err, "write")
		}
	}
}

// resume retries the resume handshake until it succeeds, sleeping backoff
// between attempts while the device keeps reporting "try again". A resumed
// stream still needs a prepare before writes continue.
func (p *Player) resume(backoff time.Duration) error {
	for {
		err := p.Device.Resume()
		if err == nil {
			break
		}
		if errors.Cause(err) == device.ErrTryAgain {
			time.Sleep(backoff)
			continue
		}
		return errors.Wrap(err, "resume")
	}
	if err := p.Device.Prepare(); err != nil {
		return errors.Wrap(err, "prepare")
	}
	return nil
}
