package compose

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrWong99/shortsmith/pkg/audio"
)

// Compile-time interface assertion.
var _ Backend = (*FFmpegBackend)(nil)

// FFmpegBackend implements [Backend] by shelling out to ffmpeg. The mix is
// expressed as an adelay/amix filter graph with renormalization disabled,
// and the loudness pass uses the loudnorm filter in linear mode — the same
// graph a muxing pipeline built around ffmpeg would run, which makes the
// backend a drop-in for deployments that hand scratch WAVs straight to the
// video assembly step.
type FFmpegBackend struct {
	bin string
}

// NewFFmpeg creates an ffmpeg-backed mixing backend. bin is the ffmpeg
// executable name or path; empty means "ffmpeg" from PATH.
func NewFFmpeg(bin string) *FFmpegBackend {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpegBackend{bin: bin}
}

// durationTolerance is the maximum deviation accepted between the requested
// track length and what ffmpeg produced before the result is rejected as a
// MixingFailure. Within tolerance the clip is snapped to the exact length.
const durationTolerance = 5 * time.Millisecond

// Mix writes each source to a scratch WAV, then runs a single ffmpeg
// invocation: a silent anullsrc base of the full track length, one
// volume+adelay chain per source, and a final amix with equal weights and
// normalize=0 so levels stay invariant in the overlap count.
func (b *FFmpegBackend) Mix(ctx context.Context, req MixRequest) (audio.Clip, error) {
	if req.ScratchDir == "" {
		return audio.Clip{}, &MixingFailure{Stage: "mix", Err: fmt.Errorf("ffmpeg backend requires a scratch directory")}
	}

	args := []string{
		"-loglevel", "error", "-y",
		"-f", "lavfi", "-t", ffmpegSeconds(req.Plan.Total),
		"-i", fmt.Sprintf("anullsrc=channel_layout=mono:sample_rate=%d", req.Rate),
	}

	var filters []string
	for i, src := range req.Plan.Sources {
		path := filepath.Join(req.ScratchDir, fmt.Sprintf("mix_src_%d.wav", i))
		if err := audio.WriteWAV(path, src.Clip); err != nil {
			return audio.Clip{}, &MixingFailure{Stage: "mix", Err: err}
		}
		args = append(args, "-i", path)

		delayMS := src.Offset.Milliseconds()
		filters = append(filters, fmt.Sprintf(
			"[%d:a]volume=%.3f,adelay=%d|%d[a%d]",
			i+1, src.Weight, delayMS, delayMS, i+1,
		))
	}

	// amix the silent base with every delayed source. Equal explicit
	// weights plus normalize=0 disable ffmpeg's per-input attenuation.
	n := len(req.Plan.Sources) + 1
	var amixIn strings.Builder
	amixIn.WriteString("[0:a]")
	for i := 1; i < n; i++ {
		fmt.Fprintf(&amixIn, "[a%d]", i)
	}
	filters = append(filters, fmt.Sprintf(
		"%samix=inputs=%d:duration=first:weights=%s:normalize=0[out]",
		amixIn.String(), n, strings.TrimSpace(strings.Repeat("1 ", n)),
	))

	outPath := filepath.Join(req.ScratchDir, "composite.wav")
	args = append(args,
		"-filter_complex", strings.Join(filters, ";"),
		"-map", "[out]",
		"-ar", fmt.Sprint(req.Rate), "-ac", "1",
		outPath,
	)

	if err := b.run(ctx, args); err != nil {
		return audio.Clip{}, &MixingFailure{Stage: "mix", Err: err}
	}
	return b.readExact(outPath, req.Plan.Total, req.Rate, "mix")
}

// Normalize runs the loudnorm filter in linear mode over the composite.
// Linear mode applies one gain offset instead of the adaptive limiter, so
// the relative levels established at mix time survive. loudnorm internally
// upsamples, so the output is pinned back to the pipeline rate.
func (b *FFmpegBackend) Normalize(ctx context.Context, clip audio.Clip, spec LoudnessSpec, scratchDir string) (audio.Clip, error) {
	if scratchDir == "" {
		return audio.Clip{}, &MixingFailure{Stage: "normalize", Err: fmt.Errorf("ffmpeg backend requires a scratch directory")}
	}

	inPath := filepath.Join(scratchDir, "normalize_in.wav")
	if err := audio.WriteWAV(inPath, clip); err != nil {
		return audio.Clip{}, &MixingFailure{Stage: "normalize", Err: err}
	}

	outPath := filepath.Join(scratchDir, "normalize_out.wav")
	args := []string{
		"-loglevel", "error", "-y",
		"-i", inPath,
		"-filter:a", fmt.Sprintf("loudnorm=I=%g:LRA=%g:TP=%g:linear=true",
			spec.TargetLUFS, spec.RangeLU, spec.TruePeakDB),
		"-ar", fmt.Sprint(clip.Rate), "-ac", "1",
		outPath,
	}
	if err := b.run(ctx, args); err != nil {
		return audio.Clip{}, &MixingFailure{Stage: "normalize", Err: err}
	}
	return b.readExact(outPath, clip.Duration(), clip.Rate, "normalize")
}

// run executes one ffmpeg invocation, surfacing stderr in the error.
func (b *FFmpegBackend) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, b.bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s", b.bin, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// readExact reads a produced WAV back and pins it to exactly the expected
// duration. Deviations beyond durationTolerance mean the filter graph did
// not do what was asked and the render must abort.
func (b *FFmpegBackend) readExact(path string, want time.Duration, rate int, stage string) (audio.Clip, error) {
	clip, err := audio.ReadWAV(path)
	if err != nil {
		return audio.Clip{}, &MixingFailure{Stage: stage, Err: err}
	}
	if clip.Rate != rate {
		clip = audio.Clip{Samples: audio.ResampleMono(clip.Samples, clip.Rate, rate), Rate: rate}
	}

	got := clip.Duration()
	drift := got - want
	if drift < 0 {
		drift = -drift
	}
	if drift > durationTolerance {
		return audio.Clip{}, &MixingFailure{
			Stage: stage,
			Err:   fmt.Errorf("produced %s of audio, want %s", got, want),
		}
	}
	return clip.Slice(0, want), nil
}

// ffmpegSeconds formats a duration as fractional seconds for ffmpeg flags.
func ffmpegSeconds(d time.Duration) string {
	return fmt.Sprintf("%.6f", d.Seconds())
}
