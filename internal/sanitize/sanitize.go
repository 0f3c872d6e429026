// Package sanitize derives speakable text from authored overlay text.
//
// The transformation is pure, deterministic, and total: it never fails and
// never performs I/O. An empty result is a legitimate outcome (the caller
// records a low-severity diagnostic), not an error.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"

	"github.com/MrWong99/shortsmith/internal/timeline"
)

// CountdownSpeech is the canonical spoken form of the countdown component.
// The visual token set (numerals joined by separators, e.g. "3-2-1") always
// maps to one word per numeral in descending order, each with a full stop so
// TTS produces three cleanly separable beats.
const CountdownSpeech = "Three. Two. One."

var (
	// multiBang collapses runs of exclamation marks; stacked punctuation
	// reads fine on screen but makes TTS shout.
	multiBang = regexp.MustCompile(`!+`)

	// multiSpace collapses whitespace runs left behind by glyph removal.
	multiSpace = regexp.MustCompile(`\s+`)

	// sentenceEnd finds a terminal punctuation run that closes a sentence:
	// it must be followed by whitespace or the end of the text, so decimal
	// points inside numbers ("3.14") do not count as boundaries.
	sentenceEnd = regexp.MustCompile(`([.!?]+)(\s+|$)`)
)

// Clean derives the speakable form of visual text for the given component
// kind. It applies, in order: pictographic glyph removal, the kind-specific
// rewrite, punctuation normalisation, and whitespace collapsing.
//
// Clean is idempotent: Clean(k, Clean(k, s)) == Clean(k, s).
func Clean(kind timeline.Kind, visual string) string {
	// The countdown's speech never depends on how the numerals were drawn.
	if kind == timeline.KindCountdown {
		return CountdownSpeech
	}

	text := gomoji.RemoveEmojis(visual)
	text = multiBang.ReplaceAllString(text, "!")

	if kind == timeline.KindAnswer {
		text = trimRhetoricalTail(text)
	}

	return strings.TrimSpace(multiSpace.ReplaceAllString(text, " "))
}

// trimRhetoricalTail drops trailing sentence fragments from an answer,
// keeping only the leading sentence that carries the factual content. Quiz
// answers are authored as a fact followed by visual-engagement flourishes
// ("Paris! The City of Light! Amazing, right?"); only the fact is spoken.
//
// Text without terminal punctuation is returned unchanged — there is no
// reliable clause boundary to cut at.
func trimRhetoricalTail(text string) string {
	idx := sentenceEnd.FindStringSubmatchIndex(text)
	if idx == nil {
		return text
	}

	// A leading fragment that is nothing but punctuation is not a fact;
	// leave such degenerate text alone rather than emptying it.
	if strings.TrimSpace(text[:idx[2]]) == "" {
		return text
	}

	// Cut after the punctuation run itself, excluding trailing whitespace.
	return text[:idx[3]]
}
