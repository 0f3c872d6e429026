// Package compose builds the composite audio track: it plans clip
// placement against the timeline's visual windows, slices the countdown
// clip into per-number chunks, mixes everything over a silent base through
// a pluggable backend, and applies the single final loudness pass.
package compose

import (
	"time"

	"github.com/MrWong99/shortsmith/internal/timeline"
	"github.com/MrWong99/shortsmith/pkg/audio"
)

// countdownChunks is the number of spoken beats in a countdown ("Three",
// "Two", "One"). The visual overlay draws exactly three sub-windows, so the
// audio is always cut three ways no matter how the window was authored.
const countdownChunks = 3

// Chunk is one slice of the countdown clip, placed at its own absolute
// offset within the composite track.
type Chunk struct {
	Clip   audio.Clip
	Offset time.Duration
}

// SliceCountdown cuts the countdown clip into three contiguous chunks
// aligned to the three visual sub-windows of the countdown segment.
//
// The chunk length is (end-start)/3: when the window is not exactly three
// seconds the slice boundaries scale proportionally, so the chunk durations
// always sum to the window length. Chunk i covers
// [i*perChunk, (i+1)*perChunk) of source clip time and is placed at
// start + i*perChunk in track time. If the spoken clip runs short of a cut
// window, the remainder is silence-padded rather than failing.
func SliceCountdown(clip audio.Clip, seg timeline.Segment) []Chunk {
	perChunk := seg.Window() / countdownChunks

	chunks := make([]Chunk, 0, countdownChunks)
	for i := range countdownChunks {
		from := time.Duration(i) * perChunk
		chunks = append(chunks, Chunk{
			Clip:   clip.Slice(from, from+perChunk),
			Offset: seg.Start + from,
		})
	}
	return chunks
}
