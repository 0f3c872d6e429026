package compose

import (
	"context"
	"fmt"

	"github.com/MrWong99/shortsmith/pkg/audio"
)

// LoudnessSpec declares the single post-mix gain adjustment permitted in the
// pipeline. Per-source weights at mix time plus this one pass are the whole
// gain-staging policy — no other stage may touch levels, which rules out
// double-normalization drift by construction.
type LoudnessSpec struct {
	// TargetLUFS is the integrated loudness target (e.g., -16).
	TargetLUFS float64

	// TruePeakDB is the true-peak ceiling in dBTP (e.g., -1.5).
	TruePeakDB float64

	// RangeLU is the loudness range target in LU (e.g., 11). Only the
	// ffmpeg backend consumes it; linear-mode processing cannot reshape
	// range anyway.
	RangeLU float64
}

// MixRequest describes one composite build: the target track extent, the
// pipeline sample rate, the weighted sources, and the render-scoped scratch
// directory a backend may use for intermediate files.
type MixRequest struct {
	Plan       Plan
	Rate       int
	ScratchDir string
}

// Backend performs the additive, non-renormalizing mix and the final linear
// loudness pass. Two implementations exist: the in-memory PCM backend
// (default) and an ffmpeg-based one for deployments that want the mix done
// by the same tool that muxes the video.
//
// Mix must produce a track of exactly the requested total duration: silent
// everywhere, with each source layered additively at its offset scaled by
// its weight, and no level adjustment tied to the number of overlapping
// sources. Normalize must apply a single linear gain honouring the requested
// target and ceiling, preserving the relative levels Mix established.
type Backend interface {
	Mix(ctx context.Context, req MixRequest) (audio.Clip, error)
	Normalize(ctx context.Context, clip audio.Clip, spec LoudnessSpec, scratchDir string) (audio.Clip, error)
}

// MixingFailure is the fatal composite-stage error: the backend could not
// produce a track of the required duration. Unlike synthesis failures it
// aborts the render — there is no degraded form of "the track is the wrong
// length".
type MixingFailure struct {
	Stage string // "mix" or "normalize"
	Err   error
}

func (e *MixingFailure) Error() string {
	return fmt.Sprintf("compose: %s failed: %v", e.Stage, e.Err)
}

func (e *MixingFailure) Unwrap() error { return e.Err }
