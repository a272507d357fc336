// Package mock provides an offline TTS synthesizer that renders prompts as
// silence or a tone whose length follows the prompt length.
package mock

import (
	"context"
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// PerWord is the spoken duration allotted to each word.
const PerWord = 300 * time.Millisecond

// Config for the mock synthesizer.
type Config struct {
	SampleRateHz int
	ToneHz       float64 // 0 renders silence
	Amplitude    float64
}

// DefaultConfig returns a silent 16 kHz synthesizer.
func DefaultConfig() Config {
	return Config{SampleRateHz: 16000, Amplitude: 2000}
}

// Synthesizer implements tts.Synthesizer.
type Synthesizer struct {
	cfg Config
}

// New creates a mock synthesizer.
func New(cfg Config) *Synthesizer {
	if cfg.SampleRateHz <= 0 {
		cfg.SampleRateHz = 16000
	}
	return &Synthesizer{cfg: cfg}
}

// Synthesize logs the prompt and returns PerWord of audio per word.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := len(strings.Fields(text))
	log.Debug().Str("text", text).Int("words", words).Msg("TTS mock synthesize")

	samples := int(int64(words) * int64(PerWord) * int64(s.cfg.SampleRateHz) / int64(time.Second))
	out := make([]byte, 2*samples)
	if s.cfg.ToneHz <= 0 {
		return out, nil
	}
	step := 2 * math.Pi * s.cfg.ToneHz / float64(s.cfg.SampleRateHz)
	for i := 0; i < samples; i++ {
		v := int16(s.cfg.Amplitude * math.Sin(step*float64(i)))
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out, nil
}
