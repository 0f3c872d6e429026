package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromReader_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Engine.Backend != BackendPCM {
		t.Errorf("backend = %q, want pcm", cfg.Engine.Backend)
	}
	if cfg.Output.SampleRate != DefaultSampleRate {
		t.Errorf("sample rate = %d, want %d", cfg.Output.SampleRate, DefaultSampleRate)
	}
	if cfg.Engine.TargetLUFS != DefaultTargetLUFS {
		t.Errorf("target lufs = %g, want %g", cfg.Engine.TargetLUFS, DefaultTargetLUFS)
	}
	if cfg.Engine.TruePeakDB != DefaultTruePeakDB {
		t.Errorf("true peak = %g, want %g", cfg.Engine.TruePeakDB, DefaultTruePeakDB)
	}
	if cfg.Engine.RangeLU != DefaultRangeLU {
		t.Errorf("range = %g, want %g", cfg.Engine.RangeLU, DefaultRangeLU)
	}
	if cfg.TTS.Provider != "edge" {
		t.Errorf("provider = %q, want edge", cfg.TTS.Provider)
	}
}

func TestLoadFromReader_FullConfig(t *testing.T) {
	t.Parallel()

	yaml := `
log_level: debug
tts:
  provider: elevenlabs
  api_key: secret
  voice: voice-42
  timeout: 10s
  fallbacks:
    - provider: edge
engine:
  backend: ffmpeg
  ffmpeg_bin: /opt/ffmpeg
  gap_tolerance: 50ms
  weights:
    question: 1.2
    cta: 0.8
  target_lufs: -14
  true_peak_db: -1.0
  range_lu: 9
output:
  sample_rate: 48000
`
	cfg, err := LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != LogDebug {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.TTS.Timeout != 10*time.Second {
		t.Errorf("timeout = %s, want 10s", cfg.TTS.Timeout)
	}
	if len(cfg.TTS.Fallbacks) != 1 || cfg.TTS.Fallbacks[0].Provider != "edge" {
		t.Errorf("fallbacks = %v, want one edge entry", cfg.TTS.Fallbacks)
	}
	if cfg.Engine.Backend != BackendFFmpeg {
		t.Errorf("backend = %q, want ffmpeg", cfg.Engine.Backend)
	}
	if cfg.Engine.GapTolerance != 50*time.Millisecond {
		t.Errorf("gap tolerance = %s, want 50ms", cfg.Engine.GapTolerance)
	}
	if cfg.Engine.Weights["question"] != 1.2 {
		t.Errorf("question weight = %g, want 1.2", cfg.Engine.Weights["question"])
	}
	if cfg.Output.SampleRate != 48000 {
		t.Errorf("sample rate = %d, want 48000", cfg.Output.SampleRate)
	}
}

func TestLoadFromReader_UnknownFieldRejected(t *testing.T) {
	t.Parallel()

	_, err := LoadFromReader(strings.NewReader("bogus_field: true\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown top-level field")
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	t.Parallel()

	yaml := `
log_level: loud
engine:
  backend: sox
  gap_tolerance: -1s
  weights:
    intro: 0
output:
  sample_rate: -8000
`
	_, err := LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	for _, fragment := range []string{
		"log_level",
		"engine.backend",
		"gap_tolerance",
		"weights",
		"sample_rate",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("joined error should mention %q, got: %v", fragment, err)
		}
	}
}

func TestValidate_ElevenLabsRequiresKeyAndVoice(t *testing.T) {
	t.Parallel()

	_, err := LoadFromReader(strings.NewReader("tts:\n  provider: elevenlabs\n"))
	if err == nil {
		t.Fatal("expected an error for elevenlabs without api_key and voice")
	}
	if !strings.Contains(err.Error(), "api_key") || !strings.Contains(err.Error(), "voice") {
		t.Errorf("error should mention api_key and voice, got: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
