// Package stt defines the interface for Speech-to-Text adapters.
package stt

import (
	"context"
	"time"

	"hospital-voice-agent/internal/observability/metrics"
)

// Transcriber converts one captured utterance to text.
// An empty transcript means no speech was recognized; it is never an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Instrument wraps t so every call is recorded under provider.
func Instrument(t Transcriber, provider string, m *metrics.Metrics) Transcriber {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &instrumented{next: t, provider: provider, metrics: m}
}

type instrumented struct {
	next     Transcriber
	provider string
	metrics  *metrics.Metrics
}

func (i *instrumented) Transcribe(ctx context.Context, audio []byte) (string, error) {
	start := time.Now()
	text, err := i.next.Transcribe(ctx, audio)
	i.metrics.RecordSTT(i.provider, time.Since(start).Seconds())
	i.metrics.RecordAudio("in", len(audio))
	if err != nil {
		i.metrics.RecordSTTError(i.provider, errorType(ctx, err))
	}
	return text, err
}

func errorType(ctx context.Context, err error) string {
	if ctx.Err() != nil {
		return "canceled"
	}
	return "provider"
}
