// Package config provides the configuration schema, loader, and validation
// for the shortsmith composition engine.
package config

import "time"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// MixBackend selects the composite-track mixing implementation.
type MixBackend string

const (
	// BackendPCM mixes in memory. The default.
	BackendPCM MixBackend = "pcm"

	// BackendFFmpeg shells out to ffmpeg for mixing and loudness.
	BackendFFmpeg MixBackend = "ffmpeg"
)

// IsValid reports whether b is a recognised mixing backend.
func (b MixBackend) IsValid() bool {
	return b == BackendPCM || b == BackendFFmpeg
}

// DefaultSampleRate is the fixed handoff format rate in Hz. The output
// format is a configuration constant, never negotiated per render.
const DefaultSampleRate = 44100

// Default loudness targets for the single final normalization pass.
const (
	DefaultTargetLUFS = -16.0
	DefaultTruePeakDB = -1.5
	DefaultRangeLU    = 11.0
)

// Config is the root configuration structure for shortsmith.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	TTS    TTSConfig    `yaml:"tts"`
	Engine EngineConfig `yaml:"engine"`
	Output OutputConfig `yaml:"output"`
}

// TTSConfig selects and parameterises the speech synthesis backends.
type TTSConfig struct {
	// Provider is the primary TTS backend ("edge" or "elevenlabs").
	Provider string `yaml:"provider"`

	// APIKey authenticates against the provider, where required.
	APIKey string `yaml:"api_key"`

	// Voice is the provider-specific voice identifier
	// (e.g., "en-US-AriaNeural" for Edge TTS).
	Voice string `yaml:"voice"`

	// Timeout bounds one synthesis call. Zero means the engine default.
	Timeout time.Duration `yaml:"timeout"`

	// Fallbacks lists additional backends tried in order when the primary
	// fails an utterance.
	Fallbacks []TTSFallbackConfig `yaml:"fallbacks"`
}

// TTSFallbackConfig describes one fallback TTS backend.
type TTSFallbackConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
}

// EngineConfig holds composition pipeline settings.
type EngineConfig struct {
	// Backend selects the mixing implementation. Default: pcm.
	Backend MixBackend `yaml:"backend"`

	// FFmpegBin is the ffmpeg executable used by the ffmpeg backend.
	// Empty means "ffmpeg" from PATH.
	FFmpegBin string `yaml:"ffmpeg_bin"`

	// GapTolerance is the largest timeline gap/overlap accepted without a
	// warning. Default 0: any discontinuity is flagged.
	GapTolerance time.Duration `yaml:"gap_tolerance"`

	// Weights maps segment kinds to per-source mix weights. Missing kinds
	// default to 1.0.
	Weights map[string]float64 `yaml:"weights"`

	// TargetLUFS, TruePeakDB and RangeLU configure the final loudness
	// pass. Zero values take the package defaults.
	TargetLUFS float64 `yaml:"target_lufs"`
	TruePeakDB float64 `yaml:"true_peak_db"`
	RangeLU    float64 `yaml:"range_lu"`

	// ScratchDir is the parent directory for render scratch space. Empty
	// means the system temp directory.
	ScratchDir string `yaml:"scratch_dir"`
}

// OutputConfig holds the fixed handoff artifact format.
type OutputConfig struct {
	// SampleRate in Hz. Default: [DefaultSampleRate].
	SampleRate int `yaml:"sample_rate"`
}
