// Package piep generates seamlessly loopable sine-wave clips for PCM
// playback.
package piep

import "time"

// SampleRate is the number of samples per second.
type SampleRate int

// D returns the duration of n samples.
func (sr SampleRate) D(n int) time.Duration {
	return time.Duration(int64(n) * int64(time.Second) / int64(sr))
}

// N returns the number of samples that last for duration d.
func (sr SampleRate) N(d time.Duration) int {
	return int(int64(d) * int64(sr) / int64(time.Second))
}

// Clip is one device period of mono signed 16-bit samples. A clip produced by
// Synthesize contains a whole number of wave cycles, so playing it back to
// back reconstructs a continuous tone with no phase jump at the boundary.
//
// A clip is filled once and never mutated afterwards.
type Clip []int16

// Duration returns the playback time of the clip at the given sample rate.
func (c Clip) Duration(sr SampleRate) time.Duration {
	return sr.D(len(c))
}

// Bytes encodes the clip as little-endian PCM, two bytes per sample.
func (c Clip) Bytes() []byte {
	buf := make([]byte, 2*len(c))
	for i, s := range c {
		buf[2*i] = byte(s)
		buf[2*i+1] = byte(s >> 8)
	}
	return buf
}
