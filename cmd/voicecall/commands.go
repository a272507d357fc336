package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"hospital-voice-agent/internal/app"
	"hospital-voice-agent/internal/service/audio"
	"hospital-voice-agent/internal/service/turn"
)

// TextCmd runs a call on the terminal.
type TextCmd struct {
	Script string `short:"s" long:"script" description:"read caller lines from this file instead of stdin"`
}

func (c *TextCmd) Execute(args []string) error {
	return runCall(func(ctx context.Context, a *app.Application) (turn.Listener, turn.Speaker, func(), error) {
		if c.Script == "" {
			l := turn.NewConsoleListener(os.Stdin, os.Stdout)
			return l, turn.NewConsoleSpeaker(os.Stdout), func() { _ = l.Close() }, nil
		}
		f, err := os.Open(c.Script)
		if err != nil {
			return nil, nil, nil, err
		}
		l := turn.NewConsoleListener(f, nil)
		return l, turn.NewConsoleSpeaker(os.Stdout), func() {
			_ = l.Close()
			_ = f.Close()
		}, nil
	})
}

// VoiceCmd runs a call over a recorded WAV file.
type VoiceCmd struct {
	In     string `short:"i" long:"in" required:"true" description:"caller audio, 16-bit mono WAV or raw 16 kHz PCM"`
	Out    string `short:"o" long:"out" description:"write the agent's audio to this WAV file"`
	Script string `short:"s" long:"script" description:"transcripts for the mock STT provider, one per utterance"`
}

func (c *VoiceCmd) Execute(args []string) error {
	script, err := readScript(c.Script)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	var played bytes.Buffer
	var rate int

	err = runCall(func(ctx context.Context, a *app.Application) (turn.Listener, turn.Speaker, func(), error) {
		f, err := os.Open(c.In)
		if err != nil {
			return nil, nil, nil, err
		}
		pcm, format, err := audio.NewPCMReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, nil, err
		}
		rate = format.SampleRateHz
		log.Info().Str("file", c.In).Int("sampleRateHz", rate).Msg("Playing recorded call")

		l, s, closeIO, err := a.VoiceIO(ctx, pcm, rate, &played, script)
		if err != nil {
			_ = f.Close()
			return nil, nil, nil, err
		}
		return l, s, func() { closeIO(); _ = f.Close() }, nil
	})
	if err != nil {
		return err
	}

	if c.Out == "" {
		return nil
	}
	out, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	defer out.Close()
	return audio.WriteWAV(out, played.Bytes(), rate)
}
