// Package mock provides a test double for the tts.Provider interface.
//
// Use Provider to feed controlled clips to the synthesis stage and to verify
// which texts and voices reach the TTS backend.
//
// Example:
//
//	p := &mock.Provider{
//	    SynthesizeFunc: func(text string) (audio.Clip, error) {
//	        return audio.Silence(2*time.Second, 44100), nil
//	    },
//	}
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/shortsmith/pkg/audio"
	"github.com/MrWong99/shortsmith/pkg/tts"
)

// SynthesizeCall records a single invocation of Synthesize.
type SynthesizeCall struct {
	// Text is the utterance passed to Synthesize.
	Text string
	// Voice is the VoiceProfile passed to Synthesize.
	Voice tts.VoiceProfile
}

// Provider is a mock implementation of tts.Provider.
type Provider struct {
	mu sync.Mutex

	// --- Configurable responses ---

	// SynthesizeFunc, if non-nil, is invoked per call to produce the result.
	// Takes precedence over SynthesizeClip/SynthesizeErr.
	SynthesizeFunc func(text string) (audio.Clip, error)

	// SynthesizeClip is returned from Synthesize when SynthesizeFunc is nil.
	SynthesizeClip audio.Clip

	// SynthesizeErr, if non-nil, is returned from Synthesize when
	// SynthesizeFunc is nil.
	SynthesizeErr error

	// ProviderName overrides the default name "mock".
	ProviderName string

	// --- Call records ---

	// SynthesizeCalls records every call to Synthesize in order.
	SynthesizeCalls []SynthesizeCall
}

// Compile-time interface assertion.
var _ tts.Provider = (*Provider)(nil)

// Synthesize records the call and returns the configured result. It honours
// context cancellation before producing any audio.
func (p *Provider) Synthesize(ctx context.Context, text string, voice tts.VoiceProfile) (audio.Clip, error) {
	p.mu.Lock()
	p.SynthesizeCalls = append(p.SynthesizeCalls, SynthesizeCall{Text: text, Voice: voice})
	fn := p.SynthesizeFunc
	clip, err := p.SynthesizeClip, p.SynthesizeErr
	p.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return audio.Clip{}, ctxErr
	}
	if fn != nil {
		return fn(text)
	}
	return clip, err
}

// Name returns the configured provider name, or "mock".
func (p *Provider) Name() string {
	if p.ProviderName != "" {
		return p.ProviderName
	}
	return "mock"
}

// Calls returns a copy of the recorded Synthesize calls. Thread-safe.
func (p *Provider) Calls() []SynthesizeCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SynthesizeCall, len(p.SynthesizeCalls))
	copy(out, p.SynthesizeCalls)
	return out
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SynthesizeCalls = nil
}
