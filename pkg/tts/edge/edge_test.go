package edge

import (
	"context"
	"testing"

	"github.com/MrWong99/shortsmith/pkg/tts"
)

func TestNew_DefaultVoice(t *testing.T) {
	t.Parallel()

	p := New()
	if p.defaultVoice != defaultVoice {
		t.Errorf("default voice = %q, want %q", p.defaultVoice, defaultVoice)
	}
	if p.Name() != "edge" {
		t.Errorf("Name() = %q, want edge", p.Name())
	}
}

func TestNew_WithDefaultVoice(t *testing.T) {
	t.Parallel()

	p := New(WithDefaultVoice("de-DE-KatjaNeural"))
	if p.defaultVoice != "de-DE-KatjaNeural" {
		t.Errorf("default voice = %q, want de-DE-KatjaNeural", p.defaultVoice)
	}
}

func TestSynthesize_RejectsEmptyText(t *testing.T) {
	t.Parallel()

	p := New()
	if _, err := p.Synthesize(context.Background(), "", tts.VoiceProfile{}); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestDecodeMP3_InvalidData(t *testing.T) {
	t.Parallel()

	if _, err := decodeMP3([]byte("not an mp3 payload")); err == nil {
		t.Error("expected error for invalid MP3 data")
	}
}
