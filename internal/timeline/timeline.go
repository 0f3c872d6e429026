// Package timeline models the parsed quiz script: four timed segments, one
// per component kind, plus the validation rules that gate a render.
//
// The timeline is the authoritative timing source for the whole pipeline —
// visual windows are fixed and audio is fitted to them, never the reverse.
package timeline

import (
	"fmt"
	"sort"
	"time"
)

// Kind identifies one of the four fixed quiz component types. The set is
// closed: every stage of the pipeline switches exhaustively over these
// values.
type Kind string

const (
	KindQuestion  Kind = "question"
	KindCountdown Kind = "countdown"
	KindAnswer    Kind = "answer"
	KindCTA       Kind = "cta"
)

// Kinds lists all four component kinds in canonical order.
var Kinds = []Kind{KindQuestion, KindCountdown, KindAnswer, KindCTA}

// IsValid reports whether k is a recognised component kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindQuestion, KindCountdown, KindAnswer, KindCTA:
		return true
	}
	return false
}

// Segment is one timed component of the quiz timeline. Start/End are
// absolute positions within the video; VisualText is the text as authored
// for the on-screen overlay; SpeechText is the derived speakable form, set
// exactly once by the sanitizer after parsing.
type Segment struct {
	Kind       Kind
	Start, End time.Duration
	VisualText string
	SpeechText string
}

// Window returns the length of the segment's visual time window.
func (s Segment) Window() time.Duration {
	return s.End - s.Start
}

// Timeline is an ordered sequence of exactly four segments, one per kind,
// sorted by start time. Construct via [New] (or [Parse]) so the ordering
// invariant holds.
type Timeline struct {
	segments []Segment
}

// New builds a Timeline from the given segments, sorted by start time. It
// does not validate — call [Timeline.Validate] before rendering.
func New(segments []Segment) *Timeline {
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	return &Timeline{segments: sorted}
}

// Segments returns the segments in start order. The returned slice is the
// timeline's backing store; callers must not reorder it.
func (t *Timeline) Segments() []Segment {
	return t.segments
}

// ByKind returns the segment of the given kind, or false if absent.
func (t *Timeline) ByKind(k Kind) (Segment, bool) {
	for _, s := range t.segments {
		if s.Kind == k {
			return s, true
		}
	}
	return Segment{}, false
}

// SetSpeechText stores the sanitized speech text for the segment of the
// given kind. It is the only permitted mutation after construction.
func (t *Timeline) SetSpeechText(k Kind, speech string) {
	for i := range t.segments {
		if t.segments[i].Kind == k {
			t.segments[i].SpeechText = speech
			return
		}
	}
}

// Duration returns the full composite track length: the maximum segment end.
func (t *Timeline) Duration() time.Duration {
	var max time.Duration
	for _, s := range t.segments {
		if s.End > max {
			max = s.End
		}
	}
	return max
}

// NextStart returns the start of the first segment beginning after the given
// segment's start, or the timeline duration if it is the last segment. This
// is the hard boundary a clip placed in that segment may never cross.
func (t *Timeline) NextStart(after Segment) time.Duration {
	next := t.Duration()
	for _, s := range t.segments {
		if s.Start > after.Start && s.Start < next {
			next = s.Start
		}
	}
	return next
}

// MalformedTimelineError is the fatal validation failure: a missing or
// duplicated component kind, or a non-positive window. A timeline carrying
// this error must never reach synthesis.
type MalformedTimelineError struct {
	// Kind is the component kind the problem relates to, if any.
	Kind Kind

	// Reason is a human-readable description of the defect.
	Reason string
}

func (e *MalformedTimelineError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("timeline: malformed %s segment: %s", e.Kind, e.Reason)
	}
	return "timeline: " + e.Reason
}

// GapWarning reports a gap or overlap between consecutive segments that
// exceeds the configured tolerance. It is advisory — see [Timeline.Validate].
type GapWarning struct {
	// Before and After are the kinds of the adjacent segments.
	Before, After Kind

	// Delta is positive for a gap and negative for an overlap.
	Delta time.Duration
}

// Validate checks the structural contract: all four kinds present exactly
// once and every window strictly positive. Returns a *MalformedTimelineError
// on the first fatal defect.
//
// Contiguity is validated softly: gaps or overlaps larger than tolerance are
// returned as warnings, never as errors. A tolerance of zero flags any
// discontinuity.
func (t *Timeline) Validate(tolerance time.Duration) ([]GapWarning, error) {
	seen := make(map[Kind]int, len(Kinds))
	for _, s := range t.segments {
		if !s.Kind.IsValid() {
			return nil, &MalformedTimelineError{Kind: s.Kind, Reason: "unknown component kind"}
		}
		seen[s.Kind]++
		if s.Start < 0 {
			return nil, &MalformedTimelineError{Kind: s.Kind, Reason: "negative start time"}
		}
		if s.End <= s.Start {
			return nil, &MalformedTimelineError{
				Kind:   s.Kind,
				Reason: fmt.Sprintf("non-positive window [%s, %s]", s.Start, s.End),
			}
		}
	}

	for _, k := range Kinds {
		switch seen[k] {
		case 0:
			return nil, &MalformedTimelineError{Kind: k, Reason: "segment missing"}
		case 1:
			// ok
		default:
			return nil, &MalformedTimelineError{
				Kind:   k,
				Reason: fmt.Sprintf("segment appears %d times, want exactly 1", seen[k]),
			}
		}
	}

	var warnings []GapWarning
	for i := 1; i < len(t.segments); i++ {
		prev, cur := t.segments[i-1], t.segments[i]
		delta := cur.Start - prev.End
		if delta > tolerance || -delta > tolerance {
			warnings = append(warnings, GapWarning{
				Before: prev.Kind,
				After:  cur.Kind,
				Delta:  delta,
			})
		}
	}
	return warnings, nil
}
