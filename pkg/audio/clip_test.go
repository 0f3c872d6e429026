package audio

import (
	"math"
	"testing"
	"time"
)

const testRate = 8000

func TestSilence(t *testing.T) {
	t.Parallel()

	clip := Silence(3*time.Second, testRate)
	if got, want := len(clip.Samples), 3*testRate; got != want {
		t.Errorf("sample count = %d, want %d", got, want)
	}
	if clip.Peak() != 0 {
		t.Error("silence must have zero peak")
	}
	if got, want := clip.Duration(), 3*time.Second; got != want {
		t.Errorf("duration = %s, want %s", got, want)
	}
}

func TestSilence_RoundsToNearestSample(t *testing.T) {
	t.Parallel()

	// 1.00005s at 8kHz is 800.4 samples: rounds down to 800.
	clip := Silence(time.Second+50*time.Microsecond, testRate)
	if got := len(clip.Samples); got != 8000 {
		t.Errorf("sample count = %d, want 8000", got)
	}
}

func TestClip_Slice(t *testing.T) {
	t.Parallel()

	src := Clip{Samples: make([]float32, 2*testRate), Rate: testRate}
	for i := range src.Samples {
		src.Samples[i] = float32(i)
	}

	t.Run("interior window", func(t *testing.T) {
		t.Parallel()

		out := src.Slice(500*time.Millisecond, 1500*time.Millisecond)
		if got, want := len(out.Samples), testRate; got != want {
			t.Fatalf("length = %d, want %d", got, want)
		}
		if out.Samples[0] != float32(testRate/2) {
			t.Errorf("first sample = %v, want %v", out.Samples[0], float32(testRate/2))
		}
	})

	t.Run("window past the end is silence padded", func(t *testing.T) {
		t.Parallel()

		out := src.Slice(1500*time.Millisecond, 3*time.Second)
		if got, want := out.Duration(), 1500*time.Millisecond; got != want {
			t.Fatalf("duration = %s, want %s", got, want)
		}
		// First 500ms are real, the rest is padding.
		if out.Samples[0] == 0 {
			t.Error("covered part should carry source samples")
		}
		if out.Samples[len(out.Samples)-1] != 0 {
			t.Error("padded tail should be silent")
		}
	})

	t.Run("fully past the end", func(t *testing.T) {
		t.Parallel()

		out := src.Slice(5*time.Second, 6*time.Second)
		if got, want := out.Duration(), time.Second; got != want {
			t.Fatalf("duration = %s, want %s", got, want)
		}
		if out.Peak() != 0 {
			t.Error("slice past the clip must be all silence")
		}
	})

	t.Run("returns a copy", func(t *testing.T) {
		t.Parallel()

		out := src.Slice(0, time.Second)
		out.Samples[0] = -99
		if src.Samples[0] == -99 {
			t.Error("slice must not alias the source buffer")
		}
	})
}

func TestClip_Truncate(t *testing.T) {
	t.Parallel()

	src := Silence(5200*time.Millisecond, testRate)

	out := src.Truncate(4 * time.Second)
	if got, want := out.Duration(), 4*time.Second; got != want {
		t.Errorf("duration = %s, want %s", got, want)
	}

	// Truncating to a longer duration is a no-op.
	same := src.Truncate(10 * time.Second)
	if got, want := same.Duration(), src.Duration(); got != want {
		t.Errorf("duration = %s, want unchanged %s", got, want)
	}
}

func TestClip_PeakAndRMS(t *testing.T) {
	t.Parallel()

	clip := Clip{Samples: []float32{0.5, -0.8, 0.1}, Rate: testRate}
	if got := clip.Peak(); got != 0.8 {
		t.Errorf("peak = %v, want 0.8", got)
	}

	want := math.Sqrt((0.25 + 0.64 + 0.01) / 3)
	if got := clip.RMS(); math.Abs(got-want) > 1e-6 {
		t.Errorf("rms = %v, want %v", got, want)
	}

	empty := Clip{Rate: testRate}
	if empty.Peak() != 0 || empty.RMS() != 0 {
		t.Error("empty clip must report zero peak and rms")
	}
}

func TestDurationSampleConversion(t *testing.T) {
	t.Parallel()

	if got := DurationToSamples(time.Second, 44100); got != 44100 {
		t.Errorf("DurationToSamples(1s, 44100) = %d", got)
	}
	if got := DurationToSamples(-time.Second, 44100); got != 0 {
		t.Errorf("negative duration should give 0 samples, got %d", got)
	}
	if got := SamplesToDuration(22050, 44100); got != 500*time.Millisecond {
		t.Errorf("SamplesToDuration(22050, 44100) = %s", got)
	}
	if got := SamplesToDuration(0, 44100); got != 0 {
		t.Errorf("zero samples should give 0 duration, got %s", got)
	}
}
