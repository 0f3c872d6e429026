package compose

import (
	"context"
	"errors"
	"math"

	"github.com/MrWong99/shortsmith/pkg/audio"
)

// Compile-time interface assertion.
var _ Backend = (*PCMBackend)(nil)

// PCMBackend is the default in-memory [Backend]. It mixes float32 samples
// directly and normalizes with a single measured scalar gain, so the whole
// composite stage runs without touching the filesystem.
type PCMBackend struct{}

// NewPCM creates the in-memory mixing backend.
func NewPCM() *PCMBackend {
	return &PCMBackend{}
}

// Mix allocates a silent buffer spanning the full track and layers every
// source into it additively at its offset, scaled by its weight. There is
// deliberately no 1/n attenuation for overlapping sources: the level of a
// clip is invariant in how many other clips happen to overlap it.
//
// Samples that land outside the track extent are dropped; the planner is
// expected to have truncated overruns already, so this is a backstop, not
// policy.
func (b *PCMBackend) Mix(ctx context.Context, req MixRequest) (audio.Clip, error) {
	if req.Plan.Total <= 0 {
		return audio.Clip{}, &MixingFailure{Stage: "mix", Err: errors.New("non-positive track duration")}
	}
	if err := ctx.Err(); err != nil {
		return audio.Clip{}, err
	}

	out := audio.Silence(req.Plan.Total, req.Rate)

	for _, src := range req.Plan.Sources {
		base := audio.DurationToSamples(src.Offset, req.Rate)
		w := float32(src.Weight)
		for i, s := range src.Clip.Samples {
			idx := base + i
			if idx >= len(out.Samples) {
				break
			}
			out.Samples[idx] += s * w
		}
	}
	return out, nil
}

// Normalize measures the clip's integrated loudness and applies one scalar
// gain to reach the target, reduced as needed so no sample exceeds the
// true-peak ceiling. A single scalar is the linear processing mode the
// pipeline requires: relative levels between sources are preserved exactly.
//
// Silent input (no measurable loudness) is returned unchanged.
func (b *PCMBackend) Normalize(ctx context.Context, clip audio.Clip, spec LoudnessSpec, _ string) (audio.Clip, error) {
	if err := ctx.Err(); err != nil {
		return audio.Clip{}, err
	}

	measured, ok := integratedLoudness(clip)
	if !ok {
		return clip, nil
	}

	gain := math.Pow(10, (spec.TargetLUFS-measured)/20)

	// Cap the gain so the loudest sample stays under the true-peak ceiling.
	peak := float64(clip.Peak())
	if peak > 0 {
		ceiling := math.Pow(10, spec.TruePeakDB/20)
		if maxGain := ceiling / peak; gain > maxGain {
			gain = maxGain
		}
	}

	out := audio.Clip{Samples: make([]float32, len(clip.Samples)), Rate: clip.Rate}
	g := float32(gain)
	for i, s := range clip.Samples {
		out.Samples[i] = s * g
	}
	return out, nil
}

// loudnessBlock is the measurement block length used by integratedLoudness,
// matching the 400 ms momentary window of BS.1770.
const loudnessBlock = 400 // milliseconds

// loudnessGate is the absolute gate below which a block is considered
// silence and excluded from the integrated measurement.
const loudnessGate = -70.0 // LUFS

// integratedLoudness estimates the clip's integrated loudness in LUFS using
// gated 400 ms mean-square blocks. K-weighting is omitted — for mono speech
// the flat-weighted estimate tracks the weighted one closely enough for a
// normalization target, and keeps the backend dependency-free.
//
// Returns ok=false when no block passes the gate (i.e., the clip is
// effectively silent).
func integratedLoudness(clip audio.Clip) (lufs float64, ok bool) {
	blockLen := clip.Rate * loudnessBlock / 1000
	if blockLen <= 0 || len(clip.Samples) == 0 {
		return 0, false
	}

	var sum float64
	var blocks int
	for start := 0; start < len(clip.Samples); start += blockLen {
		end := min(start+blockLen, len(clip.Samples))

		var ms float64
		for _, s := range clip.Samples[start:end] {
			ms += float64(s) * float64(s)
		}
		ms /= float64(end - start)

		if blockLoudness(ms) <= loudnessGate {
			continue
		}
		sum += ms
		blocks++
	}

	if blocks == 0 {
		return 0, false
	}
	return blockLoudness(sum / float64(blocks)), true
}

// blockLoudness converts a mean-square power to LUFS per BS.1770's
// -0.691 + 10*log10(ms) mapping.
func blockLoudness(ms float64) float64 {
	if ms <= 0 {
		return math.Inf(-1)
	}
	return -0.691 + 10*math.Log10(ms)
}
