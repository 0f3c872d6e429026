package timeline

import (
	"strings"
	"testing"
	"time"
)

const quizScript = `[0.0-4.0] QUESTION: What is the capital of France?
[4.0-7.0] COUNTDOWN: 3-2-1
[7.0-10.0] ANSWER: Paris!
[10.0-13.0] CTA: Follow for more!`

func TestParse_QuizScript(t *testing.T) {
	t.Parallel()

	tl, err := Parse(quizScript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(tl.Segments()); got != 4 {
		t.Fatalf("expected 4 segments, got %d", got)
	}
	if got, want := tl.Duration(), 13*time.Second; got != want {
		t.Errorf("Duration() = %s, want %s", got, want)
	}

	countdown, ok := tl.ByKind(KindCountdown)
	if !ok {
		t.Fatal("countdown segment missing")
	}
	if countdown.Start != 4*time.Second || countdown.End != 7*time.Second {
		t.Errorf("countdown window [%s, %s], want [4s, 7s]", countdown.Start, countdown.End)
	}
	if countdown.VisualText != "3-2-1" {
		t.Errorf("countdown visual text = %q, want %q", countdown.VisualText, "3-2-1")
	}
	if countdown.SpeechText != "" {
		t.Errorf("SpeechText should be empty after parsing, got %q", countdown.SpeechText)
	}
}

func TestParse_FractionalTimestamps(t *testing.T) {
	t.Parallel()

	tl, err := Parse("[0.5-4.25] question: Q?\n[4.25-7.0] countdown: 3-2-1\n[7.0-10.5] answer: A.\n[10.5-13.75] cta: Go!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, _ := tl.ByKind(KindQuestion)
	if q.Start != 500*time.Millisecond {
		t.Errorf("question start = %s, want 500ms", q.Start)
	}
	if q.End != 4*time.Second+250*time.Millisecond {
		t.Errorf("question end = %s, want 4.25s", q.End)
	}
}

func TestParse_KindCaseInsensitive(t *testing.T) {
	t.Parallel()

	tl, err := Parse("[0.0-4.0] Question: Q?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tl.ByKind(KindQuestion); !ok {
		t.Error("mixed-case kind token should parse as question")
	}
}

func TestParse_SkipsBlankAndUnknownKindLines(t *testing.T) {
	t.Parallel()

	script := quizScript + "\n\n[13.0-15.0] OUTRO: credits roll\n"
	tl, err := Parse(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(tl.Segments()); got != 4 {
		t.Errorf("expected unknown-kind line to be skipped, got %d segments", got)
	}
	if got, want := tl.Duration(), 13*time.Second; got != want {
		t.Errorf("Duration() = %s, want %s (outro must not contribute)", got, want)
	}
}

func TestParse_MalformedLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
	}{
		{"no timestamps", "QUESTION: What is it?"},
		{"missing colon", "[0.0-4.0] QUESTION What is it?"},
		{"missing text", "[0.0-4.0] QUESTION:"},
		{"bad range separator", "[0.0:4.0] QUESTION: What?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.line)
			if err == nil {
				t.Fatalf("expected parse error for %q", tt.line)
			}
			if !strings.Contains(err.Error(), "line 1") {
				t.Errorf("error should name the line number, got: %v", err)
			}
		})
	}
}

func TestParse_EmptyScript(t *testing.T) {
	t.Parallel()

	if _, err := Parse(""); err == nil {
		t.Error("expected error for empty script")
	}
	if _, err := Parse("\n\n\n"); err == nil {
		t.Error("expected error for blank-only script")
	}
}
