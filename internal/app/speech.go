package app

import (
	"context"
	"fmt"
	"io"

	"hospital-voice-agent/internal/service/audio"
	"hospital-voice-agent/internal/service/stt"
	"hospital-voice-agent/internal/service/stt/google"
	sttmock "hospital-voice-agent/internal/service/stt/mock"
	"hospital-voice-agent/internal/service/tts"
	ttsmock "hospital-voice-agent/internal/service/tts/mock"
	"hospital-voice-agent/internal/service/turn"
)

// NewTranscriber builds the configured STT backend. script feeds the mock
// backend; nil uses its default booking call.
func (a *Application) NewTranscriber(ctx context.Context, script []string) (stt.Transcriber, func(), error) {
	cfg := a.Cfg.STT
	switch cfg.Provider {
	case "", "mock":
		return stt.Instrument(sttmock.New(script...), "mock", a.Metrics), func() {}, nil
	case "google":
		g, err := google.New(ctx, google.Config{
			LanguageCode:  cfg.LanguageCode,
			SampleRateHz:  cfg.SampleRateHz,
			AudioEncoding: cfg.AudioEncoding,
			Model:         cfg.Model,
		})
		if err != nil {
			return nil, nil, err
		}
		return stt.Instrument(g, "google", a.Metrics), func() { _ = g.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("app: unknown STT provider %q", cfg.Provider)
	}
}

// NewSynthesizer builds the configured TTS backend.
func (a *Application) NewSynthesizer() (tts.Synthesizer, error) {
	cfg := a.Cfg.TTS
	switch cfg.Provider {
	case "", "mock":
		c := ttsmock.DefaultConfig()
		c.SampleRateHz = cfg.SampleRateHz
		return ttsmock.New(c), nil
	default:
		return nil, fmt.Errorf("app: unknown TTS provider %q", cfg.Provider)
	}
}

// RecorderConfig maps the recorder configuration for a stream of sampleRateHz.
func (a *Application) RecorderConfig(sampleRateHz int) audio.RecorderConfig {
	c := audio.DefaultRecorderConfig()
	c.SampleRateHz = sampleRateHz
	r := a.Cfg.Recorder
	c.StartTimeout = r.StartTimeout
	c.SilenceThreshold = r.SilenceThreshold
	c.SilenceDuration = r.SilenceDuration
	c.MaxDuration = r.MaxDuration
	return c
}

// VoiceIO builds a listener over pcm input and a speaker writing to out.
func (a *Application) VoiceIO(ctx context.Context, in io.Reader, sampleRateHz int, out io.Writer, script []string) (turn.Listener, turn.Speaker, func(), error) {
	transcriber, closeSTT, err := a.NewTranscriber(ctx, script)
	if err != nil {
		return nil, nil, nil, err
	}
	synth, err := a.NewSynthesizer()
	if err != nil {
		closeSTT()
		return nil, nil, nil, err
	}
	listener := turn.NewVoiceListener(audio.NewRecorder(in, a.RecorderConfig(sampleRateHz)), transcriber)
	speaker := turn.NewVoiceSpeaker(synth, audio.NewPlayer(out, a.Metrics))
	return listener, speaker, closeSTT, nil
}

// TurnConfig maps the dialogue no-input limit.
func (a *Application) TurnConfig() turn.Config {
	return turn.Config{NoInputLimit: a.Cfg.Dialogue.NoInputLimit}
}
