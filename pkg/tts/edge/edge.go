// Package edge provides a Microsoft Edge TTS-backed provider. It implements
// the tts.Provider interface.
//
// Edge TTS is a free, keyless service that returns MP3 audio. The provider
// streams MP3 chunks via edge-tts-go, decodes them with go-mp3 (which always
// emits stereo 16-bit little-endian PCM), and downmixes to the mono float32
// clip format the pipeline expects.
package edge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	edgetts "github.com/pp-group/edge-tts-go/biz/service/tts/edge"

	"github.com/MrWong99/shortsmith/pkg/audio"
	"github.com/MrWong99/shortsmith/pkg/tts"
)

// Compile-time interface assertion.
var _ tts.Provider = (*Provider)(nil)

// defaultVoice is used when the requested VoiceProfile carries no ID.
const defaultVoice = "en-US-AriaNeural"

// Option is a functional option for configuring the Edge Provider.
type Option func(*Provider)

// WithDefaultVoice overrides the voice used when a VoiceProfile has no ID.
func WithDefaultVoice(voice string) Option {
	return func(p *Provider) {
		p.defaultVoice = voice
	}
}

// Provider implements tts.Provider backed by Microsoft Edge TTS.
type Provider struct {
	defaultVoice string
}

// New creates a new Edge TTS Provider.
func New(opts ...Option) *Provider {
	p := &Provider{defaultVoice: defaultVoice}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Name returns "edge".
func (p *Provider) Name() string { return "edge" }

// Synthesize renders text via Edge TTS and returns the decoded mono clip at
// the MP3 decoder's native sample rate.
func (p *Provider) Synthesize(ctx context.Context, text string, voice tts.VoiceProfile) (audio.Clip, error) {
	if text == "" {
		return audio.Clip{}, errors.New("edge: text must not be empty")
	}
	voiceID := voice.ID
	if voiceID == "" {
		voiceID = p.defaultVoice
	}

	comm, err := edgetts.NewCommunicate(text, edgetts.WithVoice(voiceID))
	if err != nil {
		return audio.Clip{}, fmt.Errorf("edge: create communicate: %w", err)
	}

	ch, err := comm.Stream()
	if err != nil {
		return audio.Clip{}, fmt.Errorf("edge: start stream: %w", err)
	}

	// Collect the full MP3 payload. Edge TTS interleaves audio chunks with
	// word-boundary metadata; only type=="audio" entries carry PCM-bearing data.
	var mp3Buf bytes.Buffer
	for msg := range ch {
		select {
		case <-ctx.Done():
			return audio.Clip{}, ctx.Err()
		default:
		}
		if msgType, ok := msg["type"].(string); ok && msgType == "audio" {
			if data, ok := msg["data"].([]byte); ok {
				mp3Buf.Write(data)
			}
		}
	}
	if mp3Buf.Len() == 0 {
		return audio.Clip{}, errors.New("edge: no audio data received")
	}

	return decodeMP3(mp3Buf.Bytes())
}

// decodeMP3 decodes an MP3 payload into a mono clip. go-mp3 always outputs
// interleaved stereo int16 LE regardless of the source channel count.
func decodeMP3(data []byte) (audio.Clip, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return audio.Clip{}, fmt.Errorf("edge: mp3 decode: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("edge: read pcm: %w", err)
	}

	stereo := audio.BytesToInt16(pcm)
	mono := audio.StereoToMono(stereo)
	return audio.Clip{
		Samples: audio.Int16ToFloat32(mono),
		Rate:    dec.SampleRate(),
	}, nil
}
