package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrWong99/shortsmith/internal/compose"
	"github.com/MrWong99/shortsmith/internal/synth"
	"github.com/MrWong99/shortsmith/internal/timeline"
	"github.com/MrWong99/shortsmith/pkg/audio"
	"github.com/MrWong99/shortsmith/pkg/tts"
	"github.com/MrWong99/shortsmith/pkg/tts/mock"
)

const testRate = 8000

// quizTimeline returns the canonical contiguous 13s quiz timeline.
func quizTimeline() *timeline.Timeline {
	return timeline.New([]timeline.Segment{
		{Kind: timeline.KindQuestion, Start: 0, End: 4 * time.Second, VisualText: "What is the capital of France?"},
		{Kind: timeline.KindCountdown, Start: 4 * time.Second, End: 7 * time.Second, VisualText: "3-2-1"},
		{Kind: timeline.KindAnswer, Start: 7 * time.Second, End: 10 * time.Second, VisualText: "Paris!"},
		{Kind: timeline.KindCTA, Start: 10 * time.Second, End: 13 * time.Second, VisualText: "Follow for more!"},
	})
}

// newRenderer wires a renderer around the mock provider and the in-memory
// backend with test-friendly defaults.
func newRenderer(t *testing.T, provider *mock.Provider) *Renderer {
	t.Helper()
	s := synth.New(provider, tts.VoiceProfile{ID: "test-voice"}, testRate)
	return New(s, compose.NewPCM(), Options{
		Rate:        testRate,
		Loudness:    compose.LoudnessSpec{TargetLUFS: -16, TruePeakDB: -1.5, RangeLU: 11},
		ScratchBase: t.TempDir(),
	})
}

// toneClip returns a quiet constant-level clip so loudness measurement has
// something to work with.
func toneClip(d time.Duration) audio.Clip {
	clip := audio.Silence(d, testRate)
	for i := range clip.Samples {
		clip.Samples[i] = 0.05
	}
	return clip
}

func hasWarning(warnings []Warning, code WarningCode, kind timeline.Kind) bool {
	for _, w := range warnings {
		if w.Code == code && w.Kind == kind {
			return true
		}
	}
	return false
}

func TestRender_FullComposite(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{
		SynthesizeFunc: func(string) (audio.Clip, error) {
			return toneClip(2 * time.Second), nil
		},
	}
	r := newRenderer(t, provider)

	result, err := r.Render(context.Background(), quizTimeline())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The composite spans the timeline duration exactly, to the sample.
	if got, want := result.Track.Duration(), 13*time.Second; got != want {
		t.Errorf("track duration = %s, want %s", got, want)
	}
	if got, want := len(result.Track.Samples), audio.DurationToSamples(13*time.Second, testRate); got != want {
		t.Errorf("track length = %d samples, want %d", got, want)
	}
	if result.Degraded() {
		t.Errorf("expected clean render, got warnings: %v", result.Warnings)
	}

	// The countdown always speaks the canonical form, not the visual tokens.
	var countdownSpoken bool
	for _, call := range provider.Calls() {
		if call.Text == "Three. Two. One." {
			countdownSpoken = true
		}
		if strings.Contains(call.Text, "3-2-1") {
			t.Errorf("visual countdown tokens must never reach the provider, got %q", call.Text)
		}
	}
	if !countdownSpoken {
		t.Error("expected the canonical countdown utterance to be synthesised")
	}
}

func TestRender_SynthesisFailureDegrades(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{
		SynthesizeFunc: func(text string) (audio.Clip, error) {
			if strings.Contains(text, "Paris") {
				return audio.Clip{}, errors.New("voice service unavailable")
			}
			return toneClip(2 * time.Second), nil
		},
	}
	r := newRenderer(t, provider)

	result, err := r.Render(context.Background(), quizTimeline())
	if err != nil {
		t.Fatalf("a failed segment must degrade, not abort: %v", err)
	}

	if !result.Degraded() {
		t.Fatal("expected a degraded result")
	}
	if !hasWarning(result.Warnings, WarnSynthesisFailure, timeline.KindAnswer) {
		t.Errorf("expected a synthesis_failure warning for the answer, got %v", result.Warnings)
	}

	// The composite still spans the full timeline; the answer window is
	// silent while all other narration is present.
	if got, want := result.Track.Duration(), 13*time.Second; got != want {
		t.Errorf("track duration = %s, want %s", got, want)
	}
	answerRegion := result.Track.Slice(7*time.Second+500*time.Millisecond, 9*time.Second)
	if answerRegion.Peak() != 0 {
		t.Error("failed answer segment should render as silence")
	}
	questionRegion := result.Track.Slice(500*time.Millisecond, time.Second)
	if questionRegion.Peak() == 0 {
		t.Error("question narration should still be audible")
	}
}

func TestRender_MalformedTimelineAbortsBeforeSynthesis(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{SynthesizeClip: toneClip(time.Second)}
	r := newRenderer(t, provider)

	segs := quizTimeline().Segments()
	dup := append(segs, timeline.Segment{
		Kind: timeline.KindCountdown, Start: 13 * time.Second, End: 16 * time.Second, VisualText: "3-2-1",
	})

	_, err := r.Render(context.Background(), timeline.New(dup))

	var malformed *timeline.MalformedTimelineError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *MalformedTimelineError, got %T: %v", err, err)
	}
	if malformed.Kind != timeline.KindCountdown {
		t.Errorf("error kind = %s, want countdown", malformed.Kind)
	}
	if calls := provider.Calls(); len(calls) != 0 {
		t.Errorf("no synthesis may happen for a malformed timeline, got %d calls", len(calls))
	}
}

func TestRender_OverrunTruncationWarning(t *testing.T) {
	t.Parallel()

	// The question narration runs 5.2s against a 4s window; the countdown
	// starts at 4s, so the clip is cut to exactly 4s and flagged.
	provider := &mock.Provider{
		SynthesizeFunc: func(text string) (audio.Clip, error) {
			if strings.Contains(text, "capital") {
				return toneClip(5200 * time.Millisecond), nil
			}
			return toneClip(2 * time.Second), nil
		},
	}
	r := newRenderer(t, provider)

	result, err := r.Render(context.Background(), quizTimeline())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasWarning(result.Warnings, WarnOverrunTruncation, timeline.KindQuestion) {
		t.Errorf("expected an overrun_truncation warning for the question, got %v", result.Warnings)
	}
	if got, want := result.Track.Duration(), 13*time.Second; got != want {
		t.Errorf("track duration = %s, want %s", got, want)
	}
}

func TestRender_EmptySpeechWarning(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{SynthesizeClip: toneClip(2 * time.Second)}
	r := newRenderer(t, provider)

	segs := quizTimeline().Segments()
	segs[3].VisualText = "🎉🎉🎉" // cleans to nothing

	result, err := r.Render(context.Background(), timeline.New(segs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasWarning(result.Warnings, WarnEmptySpeech, timeline.KindCTA) {
		t.Errorf("expected an empty_speech warning for the cta, got %v", result.Warnings)
	}

	// The speechless segment never reaches the provider.
	for _, call := range provider.Calls() {
		if call.Text == "" {
			t.Error("empty speech text must not be synthesised")
		}
	}
}

func TestRender_GapWarning(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{SynthesizeClip: toneClip(2 * time.Second)}
	r := newRenderer(t, provider)

	segs := quizTimeline().Segments()
	segs[2].Start = 7*time.Second + 500*time.Millisecond

	result, err := r.Render(context.Background(), timeline.New(segs))
	if err != nil {
		t.Fatalf("gaps are advisory, not fatal: %v", err)
	}
	if !hasWarning(result.Warnings, WarnTimelineGap, timeline.KindAnswer) {
		t.Errorf("expected a timeline_gap warning, got %v", result.Warnings)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{SynthesizeClip: toneClip(time.Second)}
	r := newRenderer(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, quizTimeline())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
