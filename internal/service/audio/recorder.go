// Package audio captures caller utterances from a PCM stream and plays
// synthesized prompts back.
package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// RecorderConfig controls silence-based endpointing.
type RecorderConfig struct {
	SampleRateHz     int
	FrameDuration    time.Duration
	StartTimeout     time.Duration // give up if no speech starts within this window
	SilenceThreshold float64       // RMS below this is silence
	SilenceDuration  time.Duration // trailing silence that ends an utterance
	MaxDuration      time.Duration // hard cap on one utterance
}

// DefaultRecorderConfig returns the phone-call defaults.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		SampleRateHz:     16000,
		FrameDuration:    20 * time.Millisecond,
		StartTimeout:     5000 * time.Millisecond,
		SilenceThreshold: 350.0,
		SilenceDuration:  900 * time.Millisecond,
		MaxDuration:      12000 * time.Millisecond,
	}
}

// Recorder reads LINEAR16 mono frames and cuts them into utterances.
// Timing follows audio time, so prerecorded input behaves like a live line.
// Not safe for concurrent use.
type Recorder struct {
	src  io.Reader
	cfg  RecorderConfig
	eof  bool
	last CaptureState
}

// NewRecorder creates a recorder over src. Zero config fields take defaults.
func NewRecorder(src io.Reader, cfg RecorderConfig) *Recorder {
	def := DefaultRecorderConfig()
	if cfg.SampleRateHz <= 0 {
		cfg.SampleRateHz = def.SampleRateHz
	}
	if cfg.FrameDuration <= 0 {
		cfg.FrameDuration = def.FrameDuration
	}
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = def.StartTimeout
	}
	if cfg.SilenceThreshold <= 0 {
		cfg.SilenceThreshold = def.SilenceThreshold
	}
	if cfg.SilenceDuration <= 0 {
		cfg.SilenceDuration = def.SilenceDuration
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = def.MaxDuration
	}
	return &Recorder{src: src, cfg: cfg}
}

// Config returns the effective configuration.
func (r *Recorder) Config() RecorderConfig {
	return r.cfg
}

// LastCapture returns how the most recent Record call ended.
func (r *Recorder) LastCapture() CaptureState {
	return r.last
}

// Record captures one utterance.
// It returns (nil, nil) when nobody spoke before StartTimeout, and io.EOF
// once the source is exhausted with nothing left to return.
func (r *Recorder) Record(ctx context.Context) ([]byte, error) {
	if r.eof {
		return nil, io.EOF
	}

	samplesPerFrame := int(int64(r.cfg.SampleRateHz) * int64(r.cfg.FrameDuration) / int64(time.Second))
	frame := make([]byte, samplesPerFrame*2)
	capture := NewCapture()
	defer func() { r.last = capture.State() }()

	var (
		buf     []byte
		waited  time.Duration
		spoken  time.Duration
		silence time.Duration
	)

	for {
		if err := ctx.Err(); err != nil {
			capture.Drop()
			return nil, err
		}

		n, err := io.ReadFull(r.src, frame)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				capture.Drop()
				return nil, fmt.Errorf("audio: read frame: %w", err)
			}
			r.eof = true
			if capture.State() == CaptureSpeaking {
				buf = append(buf, frame[:n]...)
				transition(capture.Finish())
				return buf, nil
			}
			capture.Drop()
			return nil, io.EOF
		}

		level := RMS(frame)
		switch capture.State() {
		case CaptureWaiting:
			waited += r.cfg.FrameDuration
			if level >= r.cfg.SilenceThreshold {
				transition(capture.Speak())
				buf = append(buf, frame...)
				spoken = r.cfg.FrameDuration
				continue
			}
			if waited >= r.cfg.StartTimeout {
				transition(capture.Timeout())
				log.Debug().Dur("waited", waited).Msg("No speech before start timeout")
				return nil, nil
			}
		case CaptureSpeaking:
			buf = append(buf, frame...)
			spoken += r.cfg.FrameDuration
			if level < r.cfg.SilenceThreshold {
				silence += r.cfg.FrameDuration
			} else {
				silence = 0
			}
			if silence >= r.cfg.SilenceDuration || spoken >= r.cfg.MaxDuration {
				transition(capture.Finish())
				log.Debug().
					Dur("spoken", spoken).
					Bool("capped", spoken >= r.cfg.MaxDuration).
					Int("bytes", len(buf)).
					Msg("Utterance captured")
				return buf, nil
			}
		}
	}
}

// transition logs a capture step the recorder did not expect to be refused.
func transition(err error) {
	if err != nil {
		log.Warn().Err(err).Msg("Unexpected capture transition")
	}
}

// RMS returns the root mean square level of little-endian 16-bit samples.
func RMS(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := float64(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
		sum += s * s
	}
	return math.Sqrt(sum / float64(n))
}
