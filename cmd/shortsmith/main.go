// Command shortsmith composes a timed quiz script into a single audio track.
//
// It reads a segment script, synthesizes narration per segment, mixes the
// clips onto a silent timeline and writes the loudness-normalized composite
// as a WAV file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrWong99/shortsmith/internal/compose"
	"github.com/MrWong99/shortsmith/internal/config"
	"github.com/MrWong99/shortsmith/internal/observe"
	"github.com/MrWong99/shortsmith/internal/render"
	"github.com/MrWong99/shortsmith/internal/synth"
	"github.com/MrWong99/shortsmith/internal/timeline"
	"github.com/MrWong99/shortsmith/pkg/audio"
	"github.com/MrWong99/shortsmith/pkg/tts"
	edgetts "github.com/MrWong99/shortsmith/pkg/tts/edge"
	"github.com/MrWong99/shortsmith/pkg/tts/elevenlabs"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	scriptPath := flag.String("script", "", "path to the segment script file (required)")
	outPath := flag.String("out", "composite.wav", "path of the output WAV file")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "shortsmith: -script is required")
		flag.Usage()
		return 2
	}

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "shortsmith: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "shortsmith: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	slog.Info("shortsmith starting",
		"config", *configPath,
		"script", *scriptPath,
		"backend", cfg.Engine.Backend,
		"sample_rate", cfg.Output.SampleRate,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "shortsmith",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── TTS provider chain ────────────────────────────────────────────────────
	provider, err := buildProvider(cfg)
	if err != nil {
		slog.Error("failed to build TTS provider", "err", err)
		return 1
	}
	slog.Info("tts provider ready", "name", provider.Name())

	// ── Parse the script ──────────────────────────────────────────────────────
	script, err := os.ReadFile(*scriptPath)
	if err != nil {
		slog.Error("failed to read script", "path", *scriptPath, "err", err)
		return 1
	}
	tl, err := timeline.Parse(string(script))
	if err != nil {
		slog.Error("failed to parse script", "path", *scriptPath, "err", err)
		return 1
	}

	// ── Render ────────────────────────────────────────────────────────────────
	var synthOpts []synth.Option
	if cfg.TTS.Timeout > 0 {
		synthOpts = append(synthOpts, synth.WithTimeout(cfg.TTS.Timeout))
	}
	synthesizer := synth.New(provider,
		tts.VoiceProfile{ID: cfg.TTS.Voice, Provider: cfg.TTS.Provider},
		cfg.Output.SampleRate, synthOpts...)

	var backend compose.Backend
	switch cfg.Engine.Backend {
	case config.BackendFFmpeg:
		backend = compose.NewFFmpeg(cfg.Engine.FFmpegBin)
	default:
		backend = compose.NewPCM()
	}

	renderer := render.New(synthesizer, backend, render.Options{
		Rate:         cfg.Output.SampleRate,
		GapTolerance: cfg.Engine.GapTolerance,
		Weights:      kindWeights(cfg.Engine.Weights),
		Loudness: compose.LoudnessSpec{
			TargetLUFS: cfg.Engine.TargetLUFS,
			TruePeakDB: cfg.Engine.TruePeakDB,
			RangeLU:    cfg.Engine.RangeLU,
		},
		ScratchBase: cfg.Engine.ScratchDir,
	})

	result, err := renderer.Render(ctx, tl)
	if err != nil {
		slog.Error("render failed", "err", err)
		return 1
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	// ── Write the artifact ────────────────────────────────────────────────────
	if err := audio.WriteWAV(*outPath, result.Track); err != nil {
		slog.Error("failed to write output", "path", *outPath, "err", err)
		return 1
	}

	status := "ok"
	if result.Degraded() {
		status = "degraded"
	}
	slog.Info("composite written",
		"path", *outPath,
		"duration", result.Track.Duration(),
		"status", status,
		"warnings", len(result.Warnings),
	)
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// buildProvider constructs the primary TTS provider from cfg, wrapping it in
// a fallback chain when fallbacks are configured.
func buildProvider(cfg *config.Config) (tts.Provider, error) {
	primary, err := newProvider(cfg.TTS.Provider, cfg.TTS.APIKey, cfg.TTS.Voice)
	if err != nil {
		return nil, fmt.Errorf("primary provider %q: %w", cfg.TTS.Provider, err)
	}
	if len(cfg.TTS.Fallbacks) == 0 {
		return primary, nil
	}

	chain := tts.NewFallback(primary)
	for i, fb := range cfg.TTS.Fallbacks {
		p, err := newProvider(fb.Provider, fb.APIKey, cfg.TTS.Voice)
		if err != nil {
			return nil, fmt.Errorf("fallback provider %d (%q): %w", i, fb.Provider, err)
		}
		chain.AddFallback(p)
		slog.Info("tts fallback registered", "position", i+1, "name", p.Name())
	}
	return chain, nil
}

// newProvider instantiates one named TTS backend.
func newProvider(name, apiKey, voice string) (tts.Provider, error) {
	switch name {
	case "edge":
		var opts []edgetts.Option
		if voice != "" {
			opts = append(opts, edgetts.WithDefaultVoice(voice))
		}
		return edgetts.New(opts...), nil
	case "elevenlabs":
		return elevenlabs.New(apiKey)
	default:
		return nil, fmt.Errorf("unknown TTS provider %q", name)
	}
}

// kindWeights converts the string-keyed config weight map to timeline kinds.
// Unknown keys were already flagged during config validation.
func kindWeights(weights map[string]float64) map[timeline.Kind]float64 {
	if len(weights) == 0 {
		return nil
	}
	out := make(map[timeline.Kind]float64, len(weights))
	for name, w := range weights {
		out[timeline.Kind(name)] = w
	}
	return out
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
