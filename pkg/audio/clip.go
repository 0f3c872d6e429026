// Package audio provides the in-memory audio model shared by every stage of
// the shortsmith composition pipeline: mono float32 sample clips, PCM format
// conversion helpers, and WAV file I/O for scratch files and the final
// handoff artifact.
//
// All durations are derived from sample counts, never from wall-clock
// measurement, so placement arithmetic stays sample-accurate end to end.
package audio

import (
	"math"
	"time"
)

// Clip is a rendered mono audio buffer. Samples are float32 in [-1.0, 1.0]
// at Rate Hz. A Clip with no samples is valid and represents zero-length
// audio.
type Clip struct {
	// Samples holds mono PCM data in [-1.0, 1.0].
	Samples []float32

	// Rate is the sample rate in Hz (e.g., 44100).
	Rate int
}

// Silence returns a clip of silence with the given duration at rate Hz.
// Durations are rounded to the nearest whole sample.
func Silence(d time.Duration, rate int) Clip {
	n := DurationToSamples(d, rate)
	return Clip{Samples: make([]float32, n), Rate: rate}
}

// Duration returns the measured length of the clip.
func (c Clip) Duration() time.Duration {
	return SamplesToDuration(len(c.Samples), c.Rate)
}

// Slice returns the portion of the clip covering [from, to) in clip time.
// The window is clamped to the clip's actual extent; if it reaches past the
// end of the clip, the remainder is padded with silence so the returned clip
// always has exactly the requested length. The returned samples are a copy.
func (c Clip) Slice(from, to time.Duration) Clip {
	lo := DurationToSamples(from, c.Rate)
	hi := DurationToSamples(to, c.Rate)
	if hi < lo {
		hi = lo
	}

	out := make([]float32, hi-lo)
	if lo < len(c.Samples) {
		copy(out, c.Samples[lo:min(hi, len(c.Samples))])
	}
	return Clip{Samples: out, Rate: c.Rate}
}

// Truncate returns a clip no longer than d. Clips already within d are
// returned unchanged (no copy).
func (c Clip) Truncate(d time.Duration) Clip {
	n := DurationToSamples(d, c.Rate)
	if n >= len(c.Samples) {
		return c
	}
	return Clip{Samples: c.Samples[:n], Rate: c.Rate}
}

// Peak returns the largest absolute sample value in the clip. Returns 0 for
// an empty clip.
func (c Clip) Peak() float32 {
	var peak float32
	for _, s := range c.Samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	return peak
}

// RMS returns the root mean square amplitude of the clip. Returns 0 for an
// empty clip.
func (c Clip) RMS() float64 {
	if len(c.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range c.Samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(c.Samples)))
}

// DurationToSamples converts a duration to a sample count at rate Hz,
// rounding to the nearest sample.
func DurationToSamples(d time.Duration, rate int) int {
	if d <= 0 || rate <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * float64(rate)))
}

// SamplesToDuration converts a sample count at rate Hz to a duration.
func SamplesToDuration(n, rate int) time.Duration {
	if n <= 0 || rate <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(rate) * float64(time.Second))
}
