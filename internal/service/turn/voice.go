package turn

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"hospital-voice-agent/internal/service/stt"
	"hospital-voice-agent/internal/service/tts"
)

// Recorder captures one utterance of PCM. audio.Recorder implements it.
type Recorder interface {
	Record(ctx context.Context) ([]byte, error)
}

// Player plays PCM. audio.Player implements it.
type Player interface {
	Play(ctx context.Context, pcm []byte) error
}

// VoiceListener records an utterance and transcribes it.
type VoiceListener struct {
	rec Recorder
	stt stt.Transcriber
}

// NewVoiceListener creates a listener over a recorder and a transcriber.
func NewVoiceListener(rec Recorder, t stt.Transcriber) *VoiceListener {
	return &VoiceListener{rec: rec, stt: t}
}

// Listen returns "" when nothing was said and ErrHangUp when the audio
// source is exhausted.
func (l *VoiceListener) Listen(ctx context.Context) (string, error) {
	pcm, err := l.rec.Record(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrHangUp
	}
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", nil
	}
	text, err := l.stt.Transcribe(ctx, pcm)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	log.Debug().Int("bytes", len(pcm)).Str("text", text).Msg("Utterance transcribed")
	return text, nil
}

// VoiceSpeaker synthesizes a prompt and plays it.
type VoiceSpeaker struct {
	tts    tts.Synthesizer
	player Player
}

// NewVoiceSpeaker creates a speaker over a synthesizer and a player.
func NewVoiceSpeaker(s tts.Synthesizer, p Player) *VoiceSpeaker {
	return &VoiceSpeaker{tts: s, player: p}
}

// Speak renders and plays text.
func (s *VoiceSpeaker) Speak(ctx context.Context, text string) error {
	pcm, err := s.tts.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	return s.player.Play(ctx, pcm)
}
