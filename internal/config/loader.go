package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/MrWong99/shortsmith/internal/timeline"
)

// ValidTTSProviders lists known TTS provider names. Used by [Validate] to
// warn about unrecognised names.
var ValidTTSProviders = []string{"edge", "elevenlabs"}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults, and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero values with the engine defaults.
func applyDefaults(cfg *Config) {
	if cfg.Engine.Backend == "" {
		cfg.Engine.Backend = BackendPCM
	}
	if cfg.Engine.TargetLUFS == 0 {
		cfg.Engine.TargetLUFS = DefaultTargetLUFS
	}
	if cfg.Engine.TruePeakDB == 0 {
		cfg.Engine.TruePeakDB = DefaultTruePeakDB
	}
	if cfg.Engine.RangeLU == 0 {
		cfg.Engine.RangeLU = DefaultRangeLU
	}
	if cfg.Output.SampleRate == 0 {
		cfg.Output.SampleRate = DefaultSampleRate
	}
	if cfg.TTS.Provider == "" {
		cfg.TTS.Provider = "edge"
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if !cfg.Engine.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("engine.backend %q is invalid; valid values: pcm, ffmpeg", cfg.Engine.Backend))
	}
	if cfg.Engine.GapTolerance < 0 {
		errs = append(errs, fmt.Errorf("engine.gap_tolerance must not be negative"))
	}
	for kind, w := range cfg.Engine.Weights {
		if !timeline.Kind(kind).IsValid() {
			errs = append(errs, fmt.Errorf("engine.weights key %q is not a segment kind; valid kinds: %v", kind, timeline.Kinds))
		}
		if w <= 0 {
			errs = append(errs, fmt.Errorf("engine.weights[%s] = %g must be positive", kind, w))
		}
	}
	if cfg.Engine.TargetLUFS > 0 {
		errs = append(errs, fmt.Errorf("engine.target_lufs %g must be negative (LUFS)", cfg.Engine.TargetLUFS))
	}
	if cfg.Engine.TruePeakDB > 0 {
		errs = append(errs, fmt.Errorf("engine.true_peak_db %g must not be positive (dBTP)", cfg.Engine.TruePeakDB))
	}
	if cfg.Output.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("output.sample_rate %d must be positive", cfg.Output.SampleRate))
	}

	validateProviderName(cfg.TTS.Provider)
	if cfg.TTS.Provider == "elevenlabs" && cfg.TTS.APIKey == "" {
		errs = append(errs, fmt.Errorf("tts.api_key is required for provider %q", cfg.TTS.Provider))
	}
	if cfg.TTS.Provider == "elevenlabs" && cfg.TTS.Voice == "" {
		errs = append(errs, fmt.Errorf("tts.voice is required for provider %q", cfg.TTS.Provider))
	}
	for i, fb := range cfg.TTS.Fallbacks {
		if fb.Provider == "" {
			errs = append(errs, fmt.Errorf("tts.fallbacks[%d].provider is required", i))
			continue
		}
		validateProviderName(fb.Provider)
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// [ValidTTSProviders].
func validateProviderName(name string) {
	if name == "" || slices.Contains(ValidTTSProviders, name) {
		return
	}
	slog.Warn("unknown TTS provider name — may be a typo",
		"name", name,
		"known", ValidTTSProviders,
	)
}
