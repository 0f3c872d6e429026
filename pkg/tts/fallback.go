package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrWong99/shortsmith/pkg/audio"
)

// ErrAllFailed is returned when every provider in a [Fallback] chain fails
// for a given utterance.
var ErrAllFailed = errors.New("tts: all providers failed")

// Fallback implements [Provider] with automatic failover across multiple TTS
// backends. Providers are tried in registration order until one succeeds.
//
// Failover is per-utterance: a provider that failed for one segment is still
// tried first for the next. Renders are short-lived one-shot operations, so
// no circuit state is kept between calls.
//
// Fallback is safe for concurrent use once constructed; AddFallback must not
// be called concurrently with Synthesize.
type Fallback struct {
	entries []fallbackEntry
}

type fallbackEntry struct {
	name     string
	provider Provider
}

// Compile-time interface assertion.
var _ Provider = (*Fallback)(nil)

// NewFallback creates a [Fallback] with primary as the preferred backend.
func NewFallback(primary Provider) *Fallback {
	return &Fallback{
		entries: []fallbackEntry{{name: primary.Name(), provider: primary}},
	}
}

// AddFallback appends a fallback provider. Fallbacks are tried in the order
// they are added, after the primary.
func (f *Fallback) AddFallback(p Provider) {
	f.entries = append(f.entries, fallbackEntry{name: p.Name(), provider: p})
}

// Name returns the primary provider's name.
func (f *Fallback) Name() string {
	return f.entries[0].name
}

// Synthesize tries each provider in order until one returns a clip. Returns
// [ErrAllFailed] wrapped with the last error if every provider fails, or
// ctx.Err() immediately if the context is cancelled between attempts.
func (f *Fallback) Synthesize(ctx context.Context, text string, voice VoiceProfile) (audio.Clip, error) {
	var lastErr error
	for _, entry := range f.entries {
		if err := ctx.Err(); err != nil {
			return audio.Clip{}, err
		}
		clip, err := entry.provider.Synthesize(ctx, text, voice)
		if err == nil {
			return clip, nil
		}
		lastErr = err
		slog.Warn("tts provider failed, trying next",
			"provider", entry.name, "error", err)
	}
	return audio.Clip{}, fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}
