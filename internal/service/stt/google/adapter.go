// Package google provides a Google Cloud Speech-to-Text transcriber.
package google

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog/log"
)

// Config holds Google Speech-to-Text recognition settings.
type Config struct {
	LanguageCode  string
	SampleRateHz  int
	AudioEncoding string // LINEAR16, MULAW, ...
	Model         string // phone_call, latest_short, ...
}

// DefaultConfig returns settings for 16 kHz LINEAR16 phone audio.
func DefaultConfig() Config {
	return Config{
		LanguageCode:  "en-US",
		SampleRateHz:  16000,
		AudioEncoding: "LINEAR16",
		Model:         "phone_call",
	}
}

// recognizer is the part of speech.Client the adapter uses.
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

// Adapter implements stt.Transcriber with synchronous recognition of each
// captured utterance.
type Adapter struct {
	client recognizer
	cfg    Config
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("google stt: new client: %w", err)
	}
	log.Info().
		Str("language", cfg.LanguageCode).
		Int("sampleRateHz", cfg.SampleRateHz).
		Str("encoding", cfg.AudioEncoding).
		Msg("Google STT adapter initialized")
	return &Adapter{client: c, cfg: cfg}, nil
}

// Transcribe sends audio for recognition and joins the top alternative of
// every result.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}
	resp, err := a.client.Recognize(ctx, a.request(audio))
	if err != nil {
		return "", fmt.Errorf("google stt: recognize: %w", err)
	}

	var parts []string
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}

func (a *Adapter) request(audio []byte) *speechpb.RecognizeRequest {
	return &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   parseAudioEncoding(a.cfg.AudioEncoding),
			SampleRateHertz:            int32(a.cfg.SampleRateHz),
			LanguageCode:               a.cfg.LanguageCode,
			Model:                      a.cfg.Model,
			EnableAutomaticPunctuation: false,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}
}

// Close releases the client connection.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// parseAudioEncoding maps a configured encoding name to the API enum.
// Unknown names fall back to LINEAR16.
func parseAudioEncoding(s string) speechpb.RecognitionConfig_AudioEncoding {
	switch s {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "AMR":
		return speechpb.RecognitionConfig_AMR
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}
