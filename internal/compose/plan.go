package compose

import (
	"time"

	"github.com/MrWong99/shortsmith/internal/timeline"
	"github.com/MrWong99/shortsmith/pkg/audio"
)

// Source is one clip scheduled for mixing: a placement offset within the
// composite track and a fixed mix weight.
type Source struct {
	Clip   audio.Clip
	Offset time.Duration
	Weight float64
}

// Truncation records a clip that was cut short to respect the next
// segment's window boundary.
type Truncation struct {
	Kind timeline.Kind

	// Measured is the clip's synthesised duration; Effective is what
	// remains after the cut.
	Measured, Effective time.Duration
}

// Plan is the fully resolved mixing schedule for one render: the target
// track length and every weighted source at its absolute offset.
type Plan struct {
	Total   time.Duration
	Sources []Source

	// Truncations lists the overruns that were hard-cut while planning.
	Truncations []Truncation
}

// BuildPlan turns the synthesised clip set into a mixing schedule.
//
// Every clip starts exactly at its segment's window start. A clip whose
// measured duration exceeds its window is not stretched or re-timed — it is
// allowed to run past the window end up to the start of the next segment's
// window, and hard-truncated there (recorded as a Truncation). The last
// segment truncates at the timeline end, so the composite is never longer
// than the timeline duration.
//
// The countdown segment contributes three separately placed chunks instead
// of its single source clip; each chunk is bounded by its own sub-window by
// construction, so chunks never truncate.
func BuildPlan(tl *timeline.Timeline, clips map[timeline.Kind]audio.Clip, weights map[timeline.Kind]float64) Plan {
	plan := Plan{Total: tl.Duration()}

	for _, seg := range tl.Segments() {
		clip, ok := clips[seg.Kind]
		if !ok || len(clip.Samples) == 0 {
			continue
		}
		weight := weightFor(weights, seg.Kind)

		if seg.Kind == timeline.KindCountdown {
			for _, chunk := range SliceCountdown(clip, seg) {
				plan.Sources = append(plan.Sources, Source{
					Clip:   chunk.Clip,
					Offset: chunk.Offset,
					Weight: weight,
				})
			}
			continue
		}

		limit := tl.NextStart(seg) - seg.Start
		measured := clip.Duration()
		if measured > limit {
			clip = clip.Truncate(limit)
			plan.Truncations = append(plan.Truncations, Truncation{
				Kind:      seg.Kind,
				Measured:  measured,
				Effective: clip.Duration(),
			})
		}

		plan.Sources = append(plan.Sources, Source{
			Clip:   clip,
			Offset: seg.Start,
			Weight: weight,
		})
	}
	return plan
}

// DefaultWeight is the per-source narration weight used when no explicit
// weight is configured for a kind.
const DefaultWeight = 1.0

// weightFor resolves the configured weight for a kind, defaulting to
// [DefaultWeight].
func weightFor(weights map[timeline.Kind]float64, k timeline.Kind) float64 {
	if w, ok := weights[k]; ok && w > 0 {
		return w
	}
	return DefaultWeight
}
