// Package mock provides a scripted STT transcriber for running calls without
// cloud credentials.
package mock

import (
	"context"
	"sync"
)

// DefaultScript is a complete booking call.
var DefaultScript = []string{
	"I want to book an appointment",
	"this is Maria Lopez",
	"cardiology",
	"most experienced",
	"tomorrow",
	"11am",
	"yes",
}

// Adapter implements stt.Transcriber by returning the next line of a script
// for every non-empty capture. Empty audio is silence; an exhausted script
// is silence too.
type Adapter struct {
	mu     sync.Mutex
	script []string
	next   int
	calls  int
}

// New creates a mock transcriber over script, or DefaultScript when empty.
func New(script ...string) *Adapter {
	if len(script) == 0 {
		script = DefaultScript
	}
	return &Adapter{script: append([]string(nil), script...)}
}

// Transcribe returns the next scripted line.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if len(audio) == 0 || a.next >= len(a.script) {
		return "", nil
	}
	line := a.script[a.next]
	a.next++
	return line, nil
}

// Calls returns how many times Transcribe ran.
func (a *Adapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// Remaining returns the number of unread script lines.
func (a *Adapter) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.script) - a.next
}
