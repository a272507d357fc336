// Package session wraps a dialogue machine with a transcript, telemetry and
// event publishing, and manages concurrent independent sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"hospital-voice-agent/internal/directory"
	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/observability/logging"
	"hospital-voice-agent/internal/observability/metrics"
	"hospital-voice-agent/internal/service/dialogue"
	"hospital-voice-agent/internal/store"
)

var tracer = otel.Tracer("hospital-voice-agent/session")

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session is closed")
)

// End reasons recorded on metrics and logs.
const (
	ReasonCompleted = "completed"
	ReasonNoInput   = "no_input"
	ReasonHangUp    = "hang_up"
	ReasonError     = "error"
	ReasonExpired   = "expired"
	ReasonEnded     = "ended"
)

// Roles of transcript entries.
const (
	RoleAgent  = "agent"
	RoleCaller = "caller"
)

// EventSink receives the events a session emits. events.Publisher implements it.
type EventSink interface {
	PublishTurn(ctx context.Context, event models.TurnEvent) error
	PublishAppointment(ctx context.Context, event models.AppointmentEvent) error
}

// Deps are the collaborators shared by all sessions of a process.
type Deps struct {
	Directory directory.Directory
	Store     store.Store
	Events    EventSink // optional
	Metrics   *metrics.Metrics
	Dialogue  dialogue.Options
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Metrics == nil {
		d.Metrics = metrics.DefaultMetrics
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Entry is one line of the call transcript.
type Entry struct {
	Role  string    `json:"role"`
	Text  string    `json:"text"`
	State string    `json:"state"`
	At    time.Time `json:"at"`
}

// Session is one call. Turns are serialized by the session's own lock; the
// machine and its context are never shared with another session.
type Session struct {
	mu         sync.Mutex
	id         string
	machine    *dialogue.Machine
	deps       Deps
	logger     zerolog.Logger
	transcript []Entry
	turns      int
	started    time.Time
	lastActive time.Time
	ended      bool
	endReason  string
}

// New creates a session in OPENING.
func New(id string, deps Deps) *Session {
	deps = deps.withDefaults()
	now := deps.Now()
	s := &Session{
		id:         id,
		machine:    dialogue.New(deps.Directory, deps.Store, deps.Dialogue),
		deps:       deps,
		logger:     logging.WithSession(id),
		started:    now,
		lastActive: now,
	}
	deps.Metrics.RecordSessionStart()
	s.logger.Info().Msg("Session started")
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Open greets the caller.
func (s *Session) Open(ctx context.Context) dialogue.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	reply := s.machine.Open()
	s.record(RoleAgent, reply.Text, reply.State)
	return reply
}

// Turn hands one caller utterance to the machine. When the machine reaches
// CLOSE, or a collaborator fails, the session ends itself.
func (s *Session) Turn(ctx context.Context, text string) (dialogue.Reply, error) {
	ctx, span := tracer.Start(ctx, "session.turn")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return dialogue.Reply{}, ErrSessionClosed
	}

	start := s.deps.Now()
	s.turns++
	turn := s.turns
	from := s.machine.State()
	s.record(RoleCaller, text, from)
	span.SetAttributes(
		attribute.String("hospital.session_id", s.id),
		attribute.Int("hospital.turn", turn),
		attribute.String("hospital.state_before", from.String()),
	)

	reply, err := s.machine.Handle(ctx, text)
	logger := logging.WithTurn(s.id, turn, from.String())
	if err != nil {
		span.RecordError(err)
		s.deps.Metrics.RecordCollaboratorError(collaborator(err))
		logger.Error().Err(err).Str("utterance", text).Msg("Turn failed")
		// A failed turn is never retried on the same session.
		if ctx.Err() != nil {
			s.end(ReasonHangUp)
		} else {
			s.end(ReasonError)
		}
		return reply, fmt.Errorf("session %s turn %d: %w", s.id, turn, err)
	}

	s.record(RoleAgent, reply.Text, reply.State)
	span.SetAttributes(attribute.String("hospital.state_after", reply.State.String()))
	s.observe(reply, s.deps.Now().Sub(start))

	logger.Info().
		Str("next", reply.State.String()).
		Bool("miss", reply.Miss).
		Bool("feeQuery", reply.FeeQuery).
		Msg("Turn handled")

	s.publish(ctx, turn, text, reply)

	if reply.State.IsTerminal() {
		s.end(ReasonCompleted)
	}
	return reply, nil
}

// Say records an agent prompt that did not come from the machine, such as
// the no-input ladder.
func (s *Session) Say(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(RoleAgent, text, s.machine.State())
}

// NoInput records a listen step that returned no speech.
func (s *Session) NoInput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.deps.Now()
	s.deps.Metrics.RecordNoInput()
}

// End closes the session. Later calls are no-ops.
func (s *Session) End(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.end(reason)
}

func (s *Session) end(reason string) {
	if s.ended {
		return
	}
	s.ended = true
	s.endReason = reason
	duration := s.deps.Now().Sub(s.started)
	s.deps.Metrics.RecordSessionEnd(reason, duration.Seconds())
	s.logger.Info().
		Str("reason", reason).
		Int("turns", s.turns).
		Str("state", s.machine.State().String()).
		Dur("duration", duration).
		Msg("Session ended")
}

// Snapshot is a consistent read of a session's public fields.
type Snapshot struct {
	ID         string
	State      dialogue.State
	Context    dialogue.Context
	Transcript []Entry
	Turns      int
	Ended      bool
	EndReason  string
	Started    time.Time
	LastActive time.Time
}

// Snapshot returns a copy of the session's state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.id,
		State:      s.machine.State(),
		Context:    s.machine.Context(),
		Transcript: append([]Entry(nil), s.transcript...),
		Turns:      s.turns,
		Ended:      s.ended,
		EndReason:  s.endReason,
		Started:    s.started,
		LastActive: s.lastActive,
	}
}

// State returns the machine's active state.
func (s *Session) State() dialogue.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// Ended reports whether the session has been closed.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) record(role, text string, state dialogue.State) {
	now := s.deps.Now()
	s.lastActive = now
	s.transcript = append(s.transcript, Entry{Role: role, Text: text, State: state.String(), At: now})
}

func (s *Session) observe(reply dialogue.Reply, latency time.Duration) {
	m := s.deps.Metrics
	m.RecordTurn(reply.From.String(), reply.State.String(), reply.Miss, latency.Seconds())
	if reply.FeeQuery {
		m.RecordFeeQuery()
	}
	if reply.RepromptLimit {
		m.RecordRepromptLimit()
	}
	switch {
	case reply.Booked != nil && reply.PreviousID != "":
		m.RecordAppointment("rescheduled")
	case reply.Booked != nil:
		m.RecordAppointment("booked")
	case reply.Cancelled != nil:
		m.RecordAppointment("cancelled")
	}
}

// publish emits the turn event and any appointment event. Publish failures
// are logged; they never fail the turn.
func (s *Session) publish(ctx context.Context, turn int, text string, reply dialogue.Reply) {
	if s.deps.Events == nil {
		return
	}
	ts := s.deps.Now().UnixMilli()
	err := s.deps.Events.PublishTurn(ctx, models.TurnEvent{
		EventType:   models.EventTurn,
		SessionID:   s.id,
		Timestamp:   ts,
		Turn:        turn,
		UserText:    text,
		Reply:       reply.Text,
		StateBefore: reply.From.String(),
		StateAfter:  reply.State.String(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish turn event")
	}

	var event *models.AppointmentEvent
	switch {
	case reply.Booked != nil && reply.PreviousID != "":
		event = &models.AppointmentEvent{EventType: models.EventAppointmentRescheduled, Appointment: *reply.Booked, PreviousID: reply.PreviousID}
	case reply.Booked != nil:
		event = &models.AppointmentEvent{EventType: models.EventAppointmentBooked, Appointment: *reply.Booked}
	case reply.Cancelled != nil:
		event = &models.AppointmentEvent{EventType: models.EventAppointmentCancelled, Appointment: *reply.Cancelled}
	}
	if event == nil {
		return
	}
	event.SessionID = s.id
	event.Timestamp = ts
	if err := s.deps.Events.PublishAppointment(ctx, *event); err != nil {
		s.logger.Warn().Err(err).Str("appointmentId", event.Appointment.ID).Msg("Failed to publish appointment event")
	}
}

// collaborator names the failing dependency for the error metric.
func collaborator(err error) string {
	var cerr *dialogue.CollaboratorError
	if errors.As(err, &cerr) {
		return cerr.Component
	}
	return "dialogue"
}
