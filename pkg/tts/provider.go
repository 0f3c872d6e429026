// Package tts defines the Provider interface for Text-to-Speech backends.
//
// A TTS provider wraps a speech synthesis service (e.g., Microsoft Edge TTS
// or ElevenLabs) and presents a uniform batch interface: one utterance in,
// one decoded mono PCM clip out. The composition engine measures the
// returned clip itself, so providers do not report durations — the clip's
// sample count is the single source of timing truth.
//
// Implementations must be safe for concurrent use; the engine synthesises
// all four quiz segments in parallel.
package tts

import (
	"context"

	"github.com/MrWong99/shortsmith/pkg/audio"
)

// Provider is the abstraction over any TTS backend.
//
// Implementations must be safe for concurrent use. Multiple synthesis
// requests may run in parallel (one per timeline segment).
type Provider interface {
	// Synthesize renders text as speech using the given voice and returns
	// the decoded clip. The clip's sample rate is whatever the backend
	// natively produces; callers resample to the pipeline rate.
	//
	// An error means this utterance could not be rendered. Errors are
	// per-call: a failed call must not poison subsequent calls on the same
	// provider.
	Synthesize(ctx context.Context, text string, voice VoiceProfile) (audio.Clip, error)

	// Name returns a short identifier for logs and metrics (e.g., "edge").
	Name() string
}

// VoiceProfile describes a TTS voice configuration.
type VoiceProfile struct {
	// ID is the provider-specific voice identifier
	// (e.g., "en-US-AriaNeural" for Edge TTS).
	ID string

	// Provider identifies which TTS backend this voice belongs to.
	Provider string

	// Metadata holds provider-specific voice attributes (gender, accent, etc.).
	Metadata map[string]string
}
