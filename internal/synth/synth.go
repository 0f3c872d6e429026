// Package synth orchestrates per-segment speech synthesis.
//
// The four timeline segments are independent, so their TTS calls run
// concurrently. Everything downstream of synthesis is strictly sequential
// and waits for the full clip set.
//
// Synthesis failure is recoverable per segment: the failed segment degrades
// to a silent placeholder of its nominal window length so a single flaky
// TTS call never aborts a render. Only context cancellation aborts the
// whole fan-out.
package synth

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/shortsmith/internal/observe"
	"github.com/MrWong99/shortsmith/internal/timeline"
	"github.com/MrWong99/shortsmith/pkg/audio"
	"github.com/MrWong99/shortsmith/pkg/tts"
)

// DefaultTimeout bounds a single TTS call. A timed-out segment degrades to
// silence like any other per-segment failure.
const DefaultTimeout = 30 * time.Second

// Failure records a per-segment synthesis failure that was degraded to a
// silent placeholder.
type Failure struct {
	Kind timeline.Kind
	Err  error
}

// Output is the result of synthesising a full timeline: one clip per kind,
// already resampled to the pipeline rate, plus the failures that were
// absorbed along the way.
type Output struct {
	// Clips maps each segment kind to its rendered (or placeholder) clip.
	Clips map[timeline.Kind]audio.Clip

	// Failures lists segments that fell back to silence.
	Failures []Failure
}

// Option configures a [Synthesizer] during construction.
type Option func(*Synthesizer)

// WithTimeout sets the per-call synthesis timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMetrics sets the metrics instance used for synthesis instrumentation.
// Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Synthesizer) {
		s.metrics = m
	}
}

// Synthesizer renders speech clips for timeline segments through a
// [tts.Provider], normalising every clip to a single pipeline sample rate.
//
// Safe for concurrent use; a Synthesizer may be shared across renders.
type Synthesizer struct {
	provider tts.Provider
	voice    tts.VoiceProfile
	rate     int
	timeout  time.Duration
	metrics  *observe.Metrics
}

// New creates a Synthesizer that speaks with the given voice and resamples
// all output to rate Hz.
func New(provider tts.Provider, voice tts.VoiceProfile, rate int, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		provider: provider,
		voice:    voice,
		rate:     rate,
		timeout:  DefaultTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// SynthesizeAll renders one clip per timeline segment, fanning the four TTS
// calls out concurrently. It returns an error only when ctx is cancelled;
// per-segment failures degrade to silent placeholders and are reported in
// [Output.Failures].
//
// Segments with empty speech text skip the TTS call entirely and receive a
// silent placeholder spanning their visual window, so downstream placement
// arithmetic never has to special-case a missing clip.
func (s *Synthesizer) SynthesizeAll(ctx context.Context, tl *timeline.Timeline) (Output, error) {
	out := Output{Clips: make(map[timeline.Kind]audio.Clip, len(tl.Segments()))}

	type result struct {
		kind    timeline.Kind
		clip    audio.Clip
		failure *Failure
	}
	results := make(chan result, len(tl.Segments()))

	g, gctx := errgroup.WithContext(ctx)
	for _, seg := range tl.Segments() {
		g.Go(func() error {
			// Cancellation boundary: never start a synthesis call on a
			// cancelled render.
			if err := gctx.Err(); err != nil {
				return err
			}

			if seg.SpeechText == "" {
				results <- result{kind: seg.Kind, clip: audio.Silence(seg.Window(), s.rate)}
				return nil
			}

			clip, err := s.synthesizeOne(gctx, seg)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.metrics.RecordProviderError(gctx, s.provider.Name())
				observe.Logger(gctx).Warn("synthesis failed, using silent placeholder",
					"kind", seg.Kind, "provider", s.provider.Name(), "error", err)
				results <- result{
					kind:    seg.Kind,
					clip:    audio.Silence(seg.Window(), s.rate),
					failure: &Failure{Kind: seg.Kind, Err: err},
				}
				return nil
			}

			results <- result{kind: seg.Kind, clip: clip}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Output{}, err
	}
	close(results)

	for r := range results {
		out.Clips[r.kind] = r.clip
		if r.failure != nil {
			out.Failures = append(out.Failures, *r.failure)
		}
	}
	return out, nil
}

// synthesizeOne performs a single bounded TTS call and resamples the result
// to the pipeline rate.
func (s *Synthesizer) synthesizeOne(ctx context.Context, seg timeline.Segment) (audio.Clip, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	clip, err := s.provider.Synthesize(callCtx, seg.SpeechText, s.voice)
	if err != nil {
		return audio.Clip{}, err
	}
	s.metrics.RecordSynthesis(ctx, string(seg.Kind), s.provider.Name(), time.Since(start).Seconds())

	if clip.Rate != s.rate {
		clip = audio.Clip{
			Samples: audio.ResampleMono(clip.Samples, clip.Rate, s.rate),
			Rate:    s.rate,
		}
	}

	observe.Logger(ctx).Debug("segment synthesised",
		"kind", seg.Kind,
		"speech_len", len(seg.SpeechText),
		"clip_duration", clip.Duration(),
		"window", seg.Window(),
	)
	return clip, nil
}
