package audio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-voice-agent/internal/observability/metrics"
)

func TestWAV_RoundTrip(t *testing.T) {
	samples := pcm(1200, 100*time.Millisecond)
	var buf bytes.Buffer
	require.NoError(t, WriteWAV(&buf, samples, 8000))
	assert.Equal(t, 44+len(samples), buf.Len())

	r, f, err := NewPCMReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, Format{SampleRateHz: 8000, Channels: 1, BitsPerSample: 16}, f)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, samples, got)
}

func TestNewPCMReader_RawPCM(t *testing.T) {
	raw := pcm(500, 20*time.Millisecond)
	r, f, err := NewPCMReader(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, DefaultFormat, f)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestNewPCMReader_SkipsExtraChunks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWAV(&buf, []byte{1, 2, 3, 4}, 16000))
	raw := buf.Bytes()

	// splice a LIST chunk with an odd size between fmt and data
	list := []byte("LIST\x03\x00\x00\x00abc\x00")
	spliced := append(append(append([]byte{}, raw[:36]...), list...), raw[36:]...)

	r, _, err := NewPCMReader(bytes.NewReader(spliced))
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestNewPCMReader_RejectsStereo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWAV(&buf, nil, 16000))
	raw := buf.Bytes()
	raw[22] = 2 // channels

	_, _, err := NewPCMReader(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPlayer_Play(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	var out bytes.Buffer
	p := NewPlayer(&out, m)

	samples := pcm(800, 250*time.Millisecond)
	require.NoError(t, p.Play(context.Background(), samples))
	assert.Equal(t, samples, out.Bytes())
	assert.Equal(t, float64(len(samples)), testutil.ToFloat64(m.AudioBytesTotal.WithLabelValues("out")))
}

func TestPlayer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := NewPlayer(&out, metrics.NewMetrics(prometheus.NewRegistry())).Play(ctx, pcm(800, time.Second))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, out.Len())
}
