package audio

import (
	"context"
	"fmt"
	"io"
	"sync"

	"hospital-voice-agent/internal/observability/metrics"
)

const playChunk = 3200 // 100ms at 16 kHz LINEAR16

// Player writes PCM to an output device or file.
type Player struct {
	mu      sync.Mutex
	w       io.Writer
	metrics *metrics.Metrics
}

// NewPlayer creates a player writing to w.
func NewPlayer(w io.Writer, m *metrics.Metrics) *Player {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Player{w: w, metrics: m}
}

// Play writes pcm in chunks and stops early when ctx is canceled.
func (p *Player) Play(ctx context.Context, pcm []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for off := 0; off < len(pcm); off += playChunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(off+playChunk, len(pcm))
		n, err := p.w.Write(pcm[off:end])
		p.metrics.RecordAudio("out", n)
		if err != nil {
			return fmt.Errorf("audio: play: %w", err)
		}
	}
	return nil
}
