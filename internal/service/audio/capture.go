package audio

import (
	"errors"
	"fmt"
	"sync"
)

// CaptureState represents the lifecycle state of one utterance capture.
type CaptureState int

const (
	// CaptureWaiting - Listening for the caller to start speaking.
	CaptureWaiting CaptureState = iota
	// CaptureSpeaking - Speech detected, frames are buffered.
	CaptureSpeaking
	// CaptureDone - Utterance ended by trailing silence, max duration or end of input.
	CaptureDone
	// CaptureTimedOut - Nothing was said before the start timeout.
	CaptureTimedOut
	// CaptureDropped - Capture abandoned after a read error.
	CaptureDropped
)

// String returns the string representation of the state.
func (s CaptureState) String() string {
	switch s {
	case CaptureWaiting:
		return "WAITING"
	case CaptureSpeaking:
		return "SPEAKING"
	case CaptureDone:
		return "DONE"
	case CaptureTimedOut:
		return "TIMED_OUT"
	case CaptureDropped:
		return "DROPPED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true if no more frames are accepted.
func (s CaptureState) IsTerminal() bool {
	return s == CaptureDone || s == CaptureTimedOut || s == CaptureDropped
}

// Errors for invalid capture transitions.
var (
	ErrCaptureClosed   = errors.New("capture is closed")
	ErrNotSpeaking     = errors.New("capture has not detected speech")
	ErrAlreadySpeaking = errors.New("capture already detected speech")
)

// Capture tracks one utterance.
//
// State transitions:
//
//	WAITING ──Speak()──→ SPEAKING ──Finish()──→ DONE
//	   │                    │
//	   └──Timeout()──→ TIMED_OUT    Drop() from any non-terminal state ──→ DROPPED
type Capture struct {
	mu    sync.RWMutex
	state CaptureState
}

// NewCapture creates a capture in WAITING state.
func NewCapture() *Capture {
	return &Capture{state: CaptureWaiting}
}

// State returns the current state.
func (c *Capture) State() CaptureState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Speak records the start of speech.
func (c *Capture) Speak() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case CaptureWaiting:
		c.state = CaptureSpeaking
		return nil
	case CaptureSpeaking:
		return ErrAlreadySpeaking
	default:
		return ErrCaptureClosed
	}
}

// Finish ends a capture that heard speech.
func (c *Capture) Finish() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case CaptureSpeaking:
		c.state = CaptureDone
		return nil
	case CaptureWaiting:
		return ErrNotSpeaking
	default:
		return ErrCaptureClosed
	}
}

// Timeout ends a capture that never heard speech.
func (c *Capture) Timeout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case CaptureWaiting:
		c.state = CaptureTimedOut
		return nil
	case CaptureSpeaking:
		return ErrAlreadySpeaking
	default:
		return ErrCaptureClosed
	}
}

// Drop abandons the capture. Returns false if it was already terminal.
func (c *Capture) Drop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.IsTerminal() {
		return false
	}
	c.state = CaptureDropped
	return true
}
