package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"

	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/observability/metrics"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerTurns != nil || p.writerLifecycle != nil {
				t.Error("expected nil writers when disabled")
			}
		})
	}
}

func TestNew_Enabled(t *testing.T) {
	p := New(&Config{
		Enabled:        true,
		Brokers:        []string{"localhost:9092"},
		TopicTurns:     "test.turns",
		TopicLifecycle: "test.lifecycle",
		Principal:      "test-principal",
		Metrics:        metrics.NewMetrics(prometheus.NewRegistry()),
	})
	defer p.Close()

	if !p.enabled {
		t.Fatal("expected publisher to be enabled")
	}
	w, ok := p.writerTurns.(*kafka.Writer)
	if !ok || w.Topic != "test.turns" {
		t.Errorf("unexpected turn writer %#v", p.writerTurns)
	}
	w, ok = p.writerLifecycle.(*kafka.Writer)
	if !ok || w.Topic != "test.lifecycle" {
		t.Errorf("unexpected lifecycle writer %#v", p.writerLifecycle)
	}
}

func TestPublisher_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false, TopicTurns: "test.turns", Principal: "test-svc"})

	if err := p.PublishTurn(context.Background(), models.TurnEvent{EventType: models.EventTurn, SessionID: "s-1"}); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
	err := p.PublishAppointment(context.Background(), models.AppointmentEvent{
		EventType:   models.EventAppointmentBooked,
		Appointment: models.Appointment{ID: "APT-1"},
	})
	if err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func testPublisher(turns, lifecycle *recordingWriter) (*Publisher, *metrics.Metrics) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return &Publisher{
		writerTurns:     turns,
		writerLifecycle: lifecycle,
		principal:       "test-svc",
		topicTurns:      "test.turns",
		topicLifecycle:  "test.lifecycle",
		enabled:         true,
		metrics:         m,
	}, m
}

func TestPublisher_PublishTurn(t *testing.T) {
	turns, lifecycle := &recordingWriter{}, &recordingWriter{}
	p, m := testPublisher(turns, lifecycle)

	event := models.TurnEvent{
		EventType:   models.EventTurn,
		SessionID:   "sess-42",
		Turn:        2,
		UserText:    "cardiology",
		StateBefore: "COLLECT_DEPARTMENT",
		StateAfter:  "SELECT_DOCTOR_PREFERENCE",
	}
	if err := p.PublishTurn(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(turns.msgs) != 1 || len(lifecycle.msgs) != 0 {
		t.Fatalf("expected one turn message, got %d turn / %d lifecycle", len(turns.msgs), len(lifecycle.msgs))
	}
	msg := turns.msgs[0]
	if string(msg.Key) != "sess-42" {
		t.Errorf("expected key sess-42, got %s", msg.Key)
	}
	if string(msg.Headers[0].Value) != models.EventTurn {
		t.Errorf("expected eventType header %s, got %s", models.EventTurn, msg.Headers[0].Value)
	}
	var decoded models.TurnEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded != event {
		t.Errorf("payload mismatch: %+v", decoded)
	}
	if got := testutil.ToFloat64(m.KafkaPublishTotal.WithLabelValues("test.turns", models.EventTurn)); got != 1 {
		t.Errorf("expected 1 publish recorded, got %v", got)
	}
}

func TestPublisher_PublishAppointmentKeyedByID(t *testing.T) {
	turns, lifecycle := &recordingWriter{}, &recordingWriter{}
	p, _ := testPublisher(turns, lifecycle)

	err := p.PublishAppointment(context.Background(), models.AppointmentEvent{
		EventType:   models.EventAppointmentRescheduled,
		SessionID:   "sess-42",
		Appointment: models.Appointment{ID: "APT-000012"},
		PreviousID:  "APT-000003",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lifecycle.msgs) != 1 {
		t.Fatalf("expected one lifecycle message, got %d", len(lifecycle.msgs))
	}
	if string(lifecycle.msgs[0].Key) != "APT-000012" {
		t.Errorf("expected appointment id key, got %s", lifecycle.msgs[0].Key)
	}
}

func TestPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p, m := testPublisher(&recordingWriter{err: boom}, &recordingWriter{})

	err := p.PublishTurn(context.Background(), models.TurnEvent{EventType: models.EventTurn, SessionID: "s"})
	if !errors.Is(err, boom) {
		t.Errorf("expected broker error, got %v", err)
	}
	if got := testutil.ToFloat64(m.KafkaPublishErrors.WithLabelValues("test.turns", models.EventTurn)); got != 1 {
		t.Errorf("expected 1 publish error recorded, got %v", got)
	}
}

func TestPublisher_Close(t *testing.T) {
	turns, lifecycle := &recordingWriter{}, &recordingWriter{}
	p, _ := testPublisher(turns, lifecycle)

	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !turns.closed || !lifecycle.closed {
		t.Error("expected both writers closed")
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	p := New(&Config{Enabled: false})

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
}
