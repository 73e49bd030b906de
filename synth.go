package piep

import "math"

// maxAmplitude is full scale minus one. The most negative 16-bit value stays
// unused so the waveform is symmetric around zero.
const maxAmplitude = 1<<15 - 1

// Synthesize fills a clip of frames samples with a sine wave close to freqHz.
//
// The requested frequency is snapped so that a whole number of wave cycles
// fits in the clip: the cycle count is rounded half away from zero
// (math.Round) and the returned frequency is derived from it. This makes the
// clip boundary phase-continuous, so the clip can be looped without any sine
// computation during playback.
//
// When the clip is too short to hold even half a cycle at freqHz, the cycle
// count rounds to zero and the result is a silent clip with a rounded
// frequency of 0. That is a consequence of the rounding policy, not an error.
func Synthesize(rate SampleRate, frames int, freqHz float64) (roundedHz float64, clip Clip) {
	clipTime := float64(frames) / float64(rate)
	roundedHz = math.Round(freqHz*clipTime) / clipTime
	clip = make(Clip, frames)
	for i := range clip {
		phase := float64(i) / float64(rate) * roundedHz * 2 * math.Pi
		clip[i] = int16(math.Round(math.Sin(phase) * maxAmplitude))
	}
	return roundedHz, clip
}
