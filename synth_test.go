package piep_test

import (
	"math"
	"testing"
	"time"

	"github.com/ttencate/piep"
)

func TestSynthesizeClipLength(t *testing.T) {
	for _, tc := range []struct {
		rate   piep.SampleRate
		frames int
		freqHz float64
	}{
		{44100, 44100, 440},
		{44100, 14700, 440},
		{48000, 16000, 1000},
		{8000, 333, 123.4},
		{22050, 1, 440},
	} {
		_, clip := piep.Synthesize(tc.rate, tc.frames, tc.freqHz)
		if len(clip) != tc.frames {
			t.Errorf("Synthesize(%v, %v, %v): clip length %v, expected %v",
				tc.rate, tc.frames, tc.freqHz, len(clip), tc.frames)
		}
	}
}

func TestSynthesizeIntegerCyclesPerClip(t *testing.T) {
	for _, tc := range []struct {
		rate   piep.SampleRate
		frames int
		freqHz float64
	}{
		{44100, 44100, 440},
		{44100, 14700, 439.7},
		{48000, 16000, 881.3},
		{8000, 333, 123.4},
		{96000, 32768, 17.5},
	} {
		rounded, _ := piep.Synthesize(tc.rate, tc.frames, tc.freqHz)
		cycles := rounded * float64(tc.frames) / float64(tc.rate)
		if math.Abs(cycles-math.Round(cycles)) > 1e-9 {
			t.Errorf("Synthesize(%v, %v, %v): %v cycles per clip is not an integer",
				tc.rate, tc.frames, tc.freqHz, cycles)
		}
	}
}

func TestSynthesizeLoopContinuity(t *testing.T) {
	for _, tc := range []struct {
		rate   piep.SampleRate
		frames int
		freqHz float64
	}{
		{44100, 14700, 440},
		{48000, 16000, 881.3},
		{8000, 333, 123.4},
	} {
		rounded, clip := piep.Synthesize(tc.rate, tc.frames, tc.freqHz)

		// Extrapolate the waveform one frame past the end of the clip and
		// compare it against the first sample of the next repetition. The
		// difference must not exceed the steepest per-frame slope of the
		// sine, i.e. there is no artificial jump at the loop boundary.
		phase := float64(tc.frames) / float64(tc.rate) * rounded * 2 * math.Pi
		next := math.Round(math.Sin(phase) * 32767)
		maxSlope := 2 * math.Pi * rounded / float64(tc.rate) * 32767
		if diff := math.Abs(next - float64(clip[0])); diff > maxSlope+1 {
			t.Errorf("Synthesize(%v, %v, %v): loop boundary jump %v exceeds max slope %v",
				tc.rate, tc.frames, tc.freqHz, diff, maxSlope)
		}
	}
}

func TestSynthesizeAmplitudeRange(t *testing.T) {
	_, clip := piep.Synthesize(44100, 44100, 439.7)
	for i, s := range clip {
		if s == math.MinInt16 {
			t.Fatalf("sample %v reaches the maximum negative value %v", i, s)
		}
	}
}

func TestSynthesizeDegenerateFrequency(t *testing.T) {
	// Less than half a wave cycle fits in the clip, so the cycle count
	// rounds to zero and the clip must come out silent.
	rounded, clip := piep.Synthesize(44100, 100, 1)
	if rounded != 0 {
		t.Fatalf("rounded frequency is %v, expected 0", rounded)
	}
	for i, s := range clip {
		if s != 0 {
			t.Fatalf("sample %v is %v, expected a silent clip", i, s)
		}
	}
}

func TestSynthesizeExactFrequency(t *testing.T) {
	// 440 waves fit exactly in one second of 44100 frames, so the frequency
	// must survive rounding untouched.
	rounded, clip := piep.Synthesize(44100, 44100, 440)
	if rounded != 440 {
		t.Fatalf("rounded frequency is %v, expected exactly 440", rounded)
	}
	if clip[0] != 0 {
		t.Fatalf("first sample is %v, expected 0 (zero phase)", clip[0])
	}

	// Count rising zero crossings to confirm the clip holds 440 complete
	// cycles.
	cycles := 0
	for i := 1; i < len(clip); i++ {
		if clip[i-1] < 0 && clip[i] >= 0 {
			cycles++
		}
	}
	if cycles != 440 {
		t.Fatalf("clip contains %v cycles, expected 440", cycles)
	}
}

func TestClipBytes(t *testing.T) {
	clip := piep.Clip{0, 1, -1, 0x7FFF, -0x7FFF}
	buf := clip.Bytes()
	if len(buf) != 2*len(clip) {
		t.Fatalf("encoded %v bytes, expected %v", len(buf), 2*len(clip))
	}
	expected := []byte{0x00, 0x00, 0x01, 0x00, 0xFF, 0xFF, 0xFF, 0x7F, 0x01, 0x80}
	for i := range expected {
		if buf[i] != expected[i] {
			t.Fatalf("byte %v is %#02x, expected %#02x", i, buf[i], expected[i])
		}
	}
}

func TestSampleRateConversions(t *testing.T) {
	sr := piep.SampleRate(44100)
	if d := sr.D(44100); d != time.Second {
		t.Errorf("duration of one second of samples is %v", d)
	}
	if n := sr.N(time.Second); n != 44100 {
		t.Errorf("samples per second is %v", n)
	}
}
