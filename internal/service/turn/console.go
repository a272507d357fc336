package turn

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleListener reads caller utterances as lines of text. An empty line
// is silence and end of input is a hang-up.
type ConsoleListener struct {
	lines     chan string
	done      chan struct{}
	closeOnce sync.Once
	prompt    string
	out       io.Writer
}

// NewConsoleListener starts reading r. When out is non-nil a "caller> "
// prompt is written before each listen. Close releases the reader goroutine
// once it has read its pending line.
func NewConsoleListener(r io.Reader, out io.Writer) *ConsoleListener {
	l := &ConsoleListener{
		lines:  make(chan string),
		done:   make(chan struct{}),
		prompt: "caller> ",
		out:    out,
	}
	go func() {
		defer close(l.lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case l.lines <- sc.Text():
			case <-l.done:
				return
			}
		}
	}()
	return l
}

// Close stops delivering lines. Later Listen calls report a hang-up.
func (l *ConsoleListener) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	return nil
}

// Listen blocks until the next line, end of input, or ctx is done.
func (l *ConsoleListener) Listen(ctx context.Context) (string, error) {
	if l.out != nil {
		fmt.Fprint(l.out, l.prompt)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-l.done:
		return "", ErrHangUp
	case line, ok := <-l.lines:
		if !ok {
			return "", ErrHangUp
		}
		return line, nil
	}
}

// ConsoleSpeaker prints prompts.
type ConsoleSpeaker struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSpeaker creates a speaker writing to w.
func NewConsoleSpeaker(w io.Writer) *ConsoleSpeaker {
	return &ConsoleSpeaker{w: w}
}

// Speak writes "agent> text".
func (s *ConsoleSpeaker) Speak(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "agent> %s\n", text)
	return err
}
