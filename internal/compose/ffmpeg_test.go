package compose

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrWong99/shortsmith/pkg/audio"
)

func TestFFmpegSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{13 * time.Second, "13.000000"},
		{4200 * time.Millisecond, "4.200000"},
		{0, "0.000000"},
	}
	for _, tt := range tests {
		if got := ffmpegSeconds(tt.d); got != tt.want {
			t.Errorf("ffmpegSeconds(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestNewFFmpeg_DefaultBin(t *testing.T) {
	t.Parallel()

	if b := NewFFmpeg(""); b.bin != "ffmpeg" {
		t.Errorf("default bin = %q, want ffmpeg", b.bin)
	}
	if b := NewFFmpeg("/usr/local/bin/ffmpeg"); b.bin != "/usr/local/bin/ffmpeg" {
		t.Errorf("bin = %q, want the explicit path", b.bin)
	}
}

func TestFFmpegBackend_RequiresScratchDir(t *testing.T) {
	t.Parallel()

	b := NewFFmpeg("")
	ctx := context.Background()

	var mf *MixingFailure
	if _, err := b.Mix(ctx, MixRequest{Plan: Plan{Total: time.Second}, Rate: testRate}); !errors.As(err, &mf) {
		t.Errorf("Mix without scratch dir: got %v, want *MixingFailure", err)
	}
	if _, err := b.Normalize(ctx, audio.Silence(time.Second, testRate), LoudnessSpec{}, ""); !errors.As(err, &mf) {
		t.Errorf("Normalize without scratch dir: got %v, want *MixingFailure", err)
	}
}

func TestReadExact_PinsDuration(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := NewFFmpeg("")

	// A clip 2ms over the requested length is within tolerance and gets
	// snapped back to exactly the requested duration.
	path := filepath.Join(dir, "near.wav")
	if err := audio.WriteWAV(path, audio.Silence(time.Second+2*time.Millisecond, testRate)); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	clip, err := b.readExact(path, time.Second, testRate, "mix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := len(clip.Samples), audio.DurationToSamples(time.Second, testRate); got != want {
		t.Errorf("snapped length = %d samples, want %d", got, want)
	}
}

func TestReadExact_RejectsLargeDrift(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := NewFFmpeg("")

	path := filepath.Join(dir, "short.wav")
	if err := audio.WriteWAV(path, audio.Silence(500*time.Millisecond, testRate)); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	_, err := b.readExact(path, time.Second, testRate, "normalize")
	var mf *MixingFailure
	if !errors.As(err, &mf) {
		t.Fatalf("expected *MixingFailure for 500ms drift, got %v", err)
	}
	if mf.Stage != "normalize" {
		t.Errorf("failure stage = %q, want normalize", mf.Stage)
	}
}
