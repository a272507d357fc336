// Package turn runs a call: it alternates speaking prompts and listening for
// the caller, and hands every utterance to the conversation.
package turn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"hospital-voice-agent/internal/observability/logging"
	"hospital-voice-agent/internal/service/dialogue"
	"hospital-voice-agent/internal/service/session"
)

// ErrHangUp is returned by a Listener when the caller's line is gone.
var ErrHangUp = errors.New("caller hung up")

// Prompts spoken outside the dialogue.
const (
	PromptNoInputFinal = "I will end this call for now. Please feel free to reach out again."
	PromptFailure      = "I'm sorry, something went wrong on our side. Please call again later or contact the front desk."
)

// noInputLadder escalates on consecutive silent listens.
var noInputLadder = []string{
	"Hello, can you hear me?",
	"No worries if now is not a good time.",
}

// Listener captures the next caller utterance. An empty string is silence.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Speaker says a prompt to the caller.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Conversation is the session the orchestrator drives. *session.Session
// implements it.
type Conversation interface {
	ID() string
	Open(ctx context.Context) dialogue.Reply
	Turn(ctx context.Context, text string) (dialogue.Reply, error)
	Say(text string)
	NoInput()
	End(reason string)
	State() dialogue.State
}

// Config for the orchestrator.
type Config struct {
	// NoInputLimit is the number of consecutive silent listens that end the call.
	NoInputLimit int
}

// DefaultConfig returns the phone-call defaults.
func DefaultConfig() Config {
	return Config{NoInputLimit: 3}
}

// Result summarizes a finished call.
type Result struct {
	Reason string
	Turns  int
	State  dialogue.State
}

// Orchestrator runs one call loop.
type Orchestrator struct {
	conv     Conversation
	listener Listener
	speaker  Speaker
	cfg      Config
	logger   zerolog.Logger
	turns    int
}

// New creates an orchestrator for conv.
func New(conv Conversation, l Listener, s Speaker, cfg Config) *Orchestrator {
	if cfg.NoInputLimit <= 0 {
		cfg.NoInputLimit = DefaultConfig().NoInputLimit
	}
	return &Orchestrator{
		conv:     conv,
		listener: l,
		speaker:  s,
		cfg:      cfg,
		logger:   logging.WithSession(conv.ID()),
	}
}

// Run speaks the greeting and loops until the conversation closes, the
// caller stays silent too long, or the line drops.
// Canceling ctx stops the call and returns ctx.Err(); ErrHangUp from the
// listener ends it without error.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	greeting := o.conv.Open(ctx)
	if err := o.speaker.Speak(ctx, greeting.Text); err != nil {
		return o.interrupted(ctx, "speak", err)
	}

	silent := 0
	for {
		text, err := o.listener.Listen(ctx)
		if err != nil {
			return o.interrupted(ctx, "listen", err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			silent++
			o.conv.NoInput()
			o.logger.Debug().Int("silent", silent).Msg("No input")
			if silent >= o.cfg.NoInputLimit {
				_ = o.say(ctx, PromptNoInputFinal)
				return o.finish(session.ReasonNoInput), nil
			}
			prompt := noInputLadder[min(silent, len(noInputLadder))-1]
			if err := o.say(ctx, prompt); err != nil {
				return o.interrupted(ctx, "speak", err)
			}
			continue
		}
		silent = 0

		reply, err := o.conv.Turn(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return o.interrupted(ctx, "turn", err)
			}
			o.logger.Error().Err(err).Msg("Call failed")
			_ = o.say(ctx, PromptFailure)
			o.conv.End(session.ReasonError)
			return o.result(session.ReasonError), err
		}
		o.turns++

		if err := o.speaker.Speak(ctx, reply.Text); err != nil {
			return o.interrupted(ctx, "speak", err)
		}
		if reply.State.IsTerminal() {
			return o.finish(session.ReasonCompleted), nil
		}
	}
}

// say records a prompt in the transcript and speaks it.
func (o *Orchestrator) say(ctx context.Context, text string) error {
	o.conv.Say(text)
	return o.speaker.Speak(ctx, text)
}

func (o *Orchestrator) finish(reason string) Result {
	o.conv.End(reason)
	o.logger.Info().Str("reason", reason).Int("turns", o.turns).Msg("Call finished")
	return o.result(reason)
}

func (o *Orchestrator) interrupted(ctx context.Context, op string, err error) (Result, error) {
	switch {
	case ctx.Err() != nil:
		o.conv.End(session.ReasonHangUp)
		o.logger.Info().Str("op", op).Msg("Call canceled")
		return o.result(session.ReasonHangUp), ctx.Err()
	case errors.Is(err, ErrHangUp):
		return o.finish(session.ReasonHangUp), nil
	default:
		o.conv.End(session.ReasonError)
		o.logger.Error().Err(err).Str("op", op).Msg("Speech I/O failed")
		return o.result(session.ReasonError), fmt.Errorf("turn: %s: %w", op, err)
	}
}

func (o *Orchestrator) result(reason string) Result {
	return Result{Reason: reason, Turns: o.turns, State: o.conv.State()}
}
