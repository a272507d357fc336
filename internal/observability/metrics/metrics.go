// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hospital_voice_agent"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Session metrics
	SessionsTotal   prometheus.Counter
	SessionsActive  prometheus.Gauge
	SessionsEnded   *prometheus.CounterVec
	SessionDuration prometheus.Histogram

	// Dialogue metrics
	TurnsTotal         *prometheus.CounterVec
	Transitions        *prometheus.CounterVec
	ExtractionMisses   *prometheus.CounterVec
	RepromptLimitHits  prometheus.Counter
	NoInputTurns       prometheus.Counter
	FeeQueries         prometheus.Counter
	TurnLatency        prometheus.Histogram
	CollaboratorErrors *prometheus.CounterVec

	// Appointment metrics
	Appointments *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// Speech metrics
	STTLatency      *prometheus.HistogramVec
	STTErrors       *prometheus.CounterVec
	AudioBytesTotal *prometheus.CounterVec

	// Transport metrics
	RequestsTotal *prometheus.CounterVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates all Prometheus metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Session metrics
		SessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of conversation sessions started",
		}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently open conversation sessions",
		}),
		SessionsEnded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Total number of sessions ended, by reason",
		}, []string{"reason"}),
		SessionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Duration of conversation sessions in seconds",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1800},
		}),

		// Dialogue metrics
		TurnsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of caller turns processed, by state",
		}, []string{"state"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Total number of state transitions",
		}, []string{"from", "to"}),
		ExtractionMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_misses_total",
			Help:      "Turns where the state's entity could not be extracted",
		}, []string{"state"}),
		RepromptLimitHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reprompt_limit_total",
			Help:      "Calls closed because the re-prompt bound was reached",
		}),
		NoInputTurns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "no_input_turns_total",
			Help:      "Listen steps that returned no speech",
		}),
		FeeQueries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fee_queries_total",
			Help:      "Turns answered by the consultation fee side channel",
		}),
		TurnLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_seconds",
			Help:      "Time to process one caller turn",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CollaboratorErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaborator_errors_total",
			Help:      "Failures of the directory, store or speech collaborators",
		}, []string{"component"}),

		// Appointment metrics
		Appointments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_total",
			Help:      "Appointments booked, cancelled or rescheduled",
		}, []string{"action"}),

		// Kafka publish metrics
		KafkaPublishTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		// Speech metrics
		STTLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stt_latency_seconds",
			Help:      "Speech-to-text processing latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"provider"}),
		STTErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_errors_total",
			Help:      "Total number of STT errors",
		}, []string{"provider", "error_type"}),
		AudioBytesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_total",
			Help:      "Audio bytes captured or played",
		}, []string{"direction"}),

		// Transport metrics
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests served by the HTTP and gRPC adapters",
		}, []string{"transport", "method", "code"}),
	}
}

// RecordSessionStart records a new session starting.
func (m *Metrics) RecordSessionStart() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionEnd records a session ending.
func (m *Metrics) RecordSessionEnd(reason string, durationSeconds float64) {
	m.SessionsActive.Dec()
	m.SessionsEnded.WithLabelValues(reason).Inc()
	m.SessionDuration.Observe(durationSeconds)
}

// RecordTurn records one processed turn.
func (m *Metrics) RecordTurn(from, to string, miss bool, latencySeconds float64) {
	m.TurnsTotal.WithLabelValues(from).Inc()
	m.TurnLatency.Observe(latencySeconds)
	if from != to {
		m.Transitions.WithLabelValues(from, to).Inc()
	}
	if miss {
		m.ExtractionMisses.WithLabelValues(from).Inc()
	}
}

// RecordRepromptLimit records a call closed by the re-prompt bound.
func (m *Metrics) RecordRepromptLimit() {
	m.RepromptLimitHits.Inc()
}

// RecordNoInput records a listen step without speech.
func (m *Metrics) RecordNoInput() {
	m.NoInputTurns.Inc()
}

// RecordFeeQuery records a fee side channel answer.
func (m *Metrics) RecordFeeQuery() {
	m.FeeQueries.Inc()
}

// RecordCollaboratorError records a failed directory, store or speech call.
func (m *Metrics) RecordCollaboratorError(component string) {
	m.CollaboratorErrors.WithLabelValues(component).Inc()
}

// RecordAppointment records a booked, cancelled or rescheduled appointment.
func (m *Metrics) RecordAppointment(action string) {
	m.Appointments.WithLabelValues(action).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordSTT records one transcription call.
func (m *Metrics) RecordSTT(provider string, latencySeconds float64) {
	m.STTLatency.WithLabelValues(provider).Observe(latencySeconds)
}

// RecordSTTError records an STT error.
func (m *Metrics) RecordSTTError(provider, errorType string) {
	m.STTErrors.WithLabelValues(provider, errorType).Inc()
}

// RecordAudio records audio bytes captured ("in") or played ("out").
func (m *Metrics) RecordAudio(direction string, bytes int) {
	m.AudioBytesTotal.WithLabelValues(direction).Add(float64(bytes))
}

// RecordRequest records one adapter request.
func (m *Metrics) RecordRequest(transport, method, code string) {
	m.RequestsTotal.WithLabelValues(transport, method, code).Inc()
}
