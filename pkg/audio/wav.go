package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavBitDepth is the bit depth used for all WAV files written by the
// pipeline. The handoff format is fixed; scratch files use the same depth so
// no conversion happens between stages.
const wavBitDepth = 16

// WriteWAV writes the clip to path as a mono 16-bit PCM WAV file at the
// clip's sample rate.
func WriteWAV(path string, clip Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audio: create %q: %w", path, err)
	}

	enc := wav.NewEncoder(f, clip.Rate, wavBitDepth, 1, 1)

	ints := Float32ToInt16(clip.Samples)
	data := make([]int, len(ints))
	for i, s := range ints {
		data[i] = int(s)
	}

	buf := &gaudio.IntBuffer{
		Data:           data,
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: clip.Rate},
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("audio: encode %q: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("audio: finalise %q: %w", path, err)
	}
	return f.Close()
}

// ReadWAV reads a WAV file into a mono Clip. Stereo files are downmixed by
// averaging channels; sample rates are preserved (use [ResampleMono] to
// convert afterwards if needed).
func ReadWAV(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("audio: open %q: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Clip{}, fmt.Errorf("audio: %q is not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("audio: decode %q: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := range frames {
		var sum int
		for ch := range channels {
			sum += buf.Data[i*channels+ch]
		}
		samples[i] = float32(sum/channels) / 32768.0
	}

	return Clip{Samples: samples, Rate: buf.Format.SampleRate}, nil
}
