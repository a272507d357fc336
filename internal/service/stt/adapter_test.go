package stt

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"hospital-voice-agent/internal/observability/metrics"
)

type funcTranscriber func(ctx context.Context, audio []byte) (string, error)

func (f funcTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f(ctx, audio)
}

func TestInstrument(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	calls := 0
	inner := funcTranscriber(func(ctx context.Context, audio []byte) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("quota exceeded")
		}
		return "cardiology", nil
	})
	tr := Instrument(inner, "google", m)

	text, err := tr.Transcribe(context.Background(), make([]byte, 320))
	assert.NoError(t, err)
	assert.Equal(t, "cardiology", text)

	_, err = tr.Transcribe(context.Background(), make([]byte, 320))
	assert.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.STTErrors.WithLabelValues("google", "provider")))
	assert.Equal(t, 640.0, testutil.ToFloat64(m.AudioBytesTotal.WithLabelValues("in")))
}
