package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-voice-agent/internal/service/audio"
)

func TestSynthesize_Silence(t *testing.T) {
	s := New(DefaultConfig())
	out, err := s.Synthesize(context.Background(), "Which department would you like")
	require.NoError(t, err)
	// 4 words * 300ms * 16000 Hz * 2 bytes
	assert.Len(t, out, 4*4800*2)
	assert.Equal(t, 0.0, audio.RMS(out))
}

func TestSynthesize_Tone(t *testing.T) {
	s := New(Config{SampleRateHz: 8000, ToneHz: 440, Amplitude: 2000})
	out, err := s.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, out, 2400*2)
	// a sine of amplitude A has RMS A/sqrt(2)
	assert.InDelta(t, 1414.0, audio.RMS(out), 20)
}

func TestSynthesize_Empty(t *testing.T) {
	out, err := New(Config{}).Synthesize(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSynthesize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultConfig()).Synthesize(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}
