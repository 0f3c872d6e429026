package render

import (
	"fmt"
	"time"

	"github.com/MrWong99/shortsmith/internal/timeline"
)

// WarningCode classifies the recoverable conditions a render can degrade
// through. Only these conditions may appear in [Result.Warnings]; fatal
// conditions (malformed timeline, mixing failure) are returned as errors
// instead.
type WarningCode string

const (
	// WarnSynthesisFailure: a segment's TTS call failed and the segment was
	// rendered as silence.
	WarnSynthesisFailure WarningCode = "synthesis_failure"

	// WarnOverrunTruncation: a clip was cut short to respect the next
	// segment's window boundary.
	WarnOverrunTruncation WarningCode = "overrun_truncation"

	// WarnEmptySpeech: sanitization stripped a non-empty visual text down
	// to nothing, so the segment has no narration.
	WarnEmptySpeech WarningCode = "empty_speech"

	// WarnTimelineGap: adjacent segments have a gap or overlap beyond the
	// configured tolerance.
	WarnTimelineGap WarningCode = "timeline_gap"
)

// Warning is one recoverable condition collected during a render. The
// caller decides whether a degraded render is acceptable.
type Warning struct {
	Code   WarningCode
	Kind   timeline.Kind
	Detail string
}

func (w Warning) String() string {
	if w.Kind != "" {
		return fmt.Sprintf("%s [%s]: %s", w.Code, w.Kind, w.Detail)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Detail)
}

// gapDetail renders a human-readable description of a timeline gap warning.
func gapDetail(g timeline.GapWarning) string {
	if g.Delta >= 0 {
		return fmt.Sprintf("%s gap between %s and %s", g.Delta, g.Before, g.After)
	}
	return fmt.Sprintf("%s overlap between %s and %s", -g.Delta, g.Before, g.After)
}

// truncationDetail renders a human-readable description of an overrun cut.
func truncationDetail(measured, effective time.Duration) string {
	return fmt.Sprintf("clip measured %s, truncated to %s at next window boundary", measured, effective)
}
