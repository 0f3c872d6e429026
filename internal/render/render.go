// Package render drives one complete composition run: timeline validation,
// sanitization, concurrent synthesis, placement planning, mixing, and the
// final loudness pass.
//
// A render either produces a full-duration composite track (possibly
// degraded, with warnings attached) or fails outright — partial composites
// are never exposed. All scratch state is scoped to the render and released
// on every exit path.
package render

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrWong99/shortsmith/internal/compose"
	"github.com/MrWong99/shortsmith/internal/observe"
	"github.com/MrWong99/shortsmith/internal/sanitize"
	"github.com/MrWong99/shortsmith/internal/synth"
	"github.com/MrWong99/shortsmith/internal/timeline"
	"github.com/MrWong99/shortsmith/pkg/audio"
)

// Result is the outcome of a successful (possibly degraded) render: the
// composite track spanning exactly the timeline duration, plus every
// recoverable condition encountered along the way.
type Result struct {
	Track    audio.Clip
	Warnings []Warning
}

// Degraded reports whether any warnings were collected.
func (r Result) Degraded() bool { return len(r.Warnings) > 0 }

// Options configures a [Renderer].
type Options struct {
	// Rate is the pipeline sample rate in Hz. Required.
	Rate int

	// GapTolerance is the largest timeline gap/overlap that passes without
	// a warning. Zero flags any discontinuity.
	GapTolerance time.Duration

	// Weights maps segment kinds to mix weights. Missing kinds default to
	// [compose.DefaultWeight].
	Weights map[timeline.Kind]float64

	// Loudness is the final normalization target.
	Loudness compose.LoudnessSpec

	// ScratchBase is the parent directory for render scratch space. Empty
	// means the system temp directory.
	ScratchBase string

	// Metrics defaults to [observe.DefaultMetrics].
	Metrics *observe.Metrics
}

// Renderer composes quiz timelines into audio tracks. Safe for concurrent
// use: each Render call owns its working set and shares nothing mutable.
type Renderer struct {
	synth   *synth.Synthesizer
	backend compose.Backend
	opts    Options
}

// New creates a Renderer around a synthesizer and a mixing backend.
func New(s *synth.Synthesizer, backend compose.Backend, opts Options) *Renderer {
	if opts.Metrics == nil {
		opts.Metrics = observe.DefaultMetrics()
	}
	return &Renderer{synth: s, backend: backend, opts: opts}
}

// Render produces the composite audio track for the timeline.
//
// Fatal conditions — a malformed timeline or a backend that cannot produce
// a track of the required duration — abort with an error. Everything else
// (failed synthesis, overrun truncation, empty speech, timeline gaps)
// degrades gracefully and lands in [Result.Warnings].
func (r *Renderer) Render(ctx context.Context, tl *timeline.Timeline) (Result, error) {
	start := time.Now()
	ctx, span := observe.StartSpan(ctx, "render",
		trace.WithAttributes(attribute.Float64("timeline.duration_s", tl.Duration().Seconds())))
	defer span.End()

	var warnings []Warning
	warn := func(w Warning) {
		warnings = append(warnings, w)
		r.opts.Metrics.RecordWarning(ctx, string(w.Code))
	}

	// Validation gates everything: no synthesis call happens for a
	// malformed timeline.
	gaps, err := tl.Validate(r.opts.GapTolerance)
	if err != nil {
		r.opts.Metrics.RecordRender(ctx, "error")
		return Result{}, err
	}
	for _, g := range gaps {
		warn(Warning{Code: WarnTimelineGap, Kind: g.After, Detail: gapDetail(g)})
	}

	// Derive speech text. The sanitizer is total — an empty result is a
	// diagnostic, not a failure.
	for _, seg := range tl.Segments() {
		speech := sanitize.Clean(seg.Kind, seg.VisualText)
		tl.SetSpeechText(seg.Kind, speech)
		if speech == "" && seg.VisualText != "" {
			warn(Warning{Code: WarnEmptySpeech, Kind: seg.Kind,
				Detail: "sanitization left no speakable content"})
		}
	}

	scratch, err := NewScratch(r.opts.ScratchBase)
	if err != nil {
		r.opts.Metrics.RecordRender(ctx, "error")
		return Result{}, err
	}
	defer scratch.Close()

	log := observe.Logger(ctx).With("render_id", scratch.ID)
	log.Info("render started",
		"duration", tl.Duration(), "rate", r.opts.Rate)

	// Concurrent synthesis fan-out. Only cancellation aborts here.
	synthOut, err := r.synth.SynthesizeAll(ctx, tl)
	if err != nil {
		r.opts.Metrics.RecordRender(ctx, "error")
		return Result{}, err
	}
	for _, f := range synthOut.Failures {
		warn(Warning{Code: WarnSynthesisFailure, Kind: f.Kind, Detail: f.Err.Error()})
	}

	// Placement planning: countdown slicing and overrun truncation.
	plan := compose.BuildPlan(tl, synthOut.Clips, r.opts.Weights)
	for _, t := range plan.Truncations {
		warn(Warning{Code: WarnOverrunTruncation, Kind: t.Kind,
			Detail: truncationDetail(t.Measured, t.Effective)})
	}

	// Build and normalize. From here the render runs to completion or
	// fails outright; no partial composite escapes.
	mixStart := time.Now()
	track, err := r.backend.Mix(ctx, compose.MixRequest{
		Plan:       plan,
		Rate:       r.opts.Rate,
		ScratchDir: scratch.Dir(),
	})
	if err != nil {
		r.opts.Metrics.RecordRender(ctx, "error")
		return Result{}, err
	}
	r.opts.Metrics.MixDuration.Record(ctx, time.Since(mixStart).Seconds())

	track, err = r.backend.Normalize(ctx, track, r.opts.Loudness, scratch.Dir())
	if err != nil {
		r.opts.Metrics.RecordRender(ctx, "error")
		return Result{}, err
	}

	status := "ok"
	if len(warnings) > 0 {
		status = "degraded"
	}
	r.opts.Metrics.RecordRender(ctx, status)
	r.opts.Metrics.RenderDuration.Record(ctx, time.Since(start).Seconds())

	log.Info("render finished",
		"status", status,
		"track_duration", track.Duration(),
		"warnings", len(warnings),
		"elapsed", time.Since(start),
	)
	return Result{Track: track, Warnings: warnings}, nil
}
