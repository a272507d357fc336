package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/observability/metrics"
	"hospital-voice-agent/internal/service/dialogue"
	"hospital-voice-agent/internal/service/session"
)

// maxBodyBytes bounds a turn request body.
const maxBodyBytes = 64 << 10

// Sessions is the part of session.Manager the router serves.
type Sessions interface {
	Start(ctx context.Context) (*session.Session, dialogue.Reply)
	Get(id string) (*session.Session, error)
	End(id string) error
}

// Deps are the router's collaborators.
type Deps struct {
	Sessions Sessions
	Metrics  *metrics.Metrics
	// Ready reports readiness; nil is always ready.
	Ready func(ctx context.Context) error
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(deps Deps) http.Handler {
	if deps.Metrics == nil {
		deps.Metrics = metrics.DefaultMetrics
	}
	h := &handlers{sessions: deps.Sessions}

	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(recordRequests(deps.Metrics))

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			if err := deps.Ready(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, err)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// API routes
	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", h.start)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Delete("/", h.end)
			r.Post("/turns", h.turn)
		})
	})

	return r
}

type handlers struct {
	sessions Sessions
}

func (h *handlers) start(w http.ResponseWriter, r *http.Request) {
	s, reply := h.sessions.Start(r.Context())
	writeJSON(w, http.StatusCreated, session.ReplyView(s.ID(), reply, s.Ended()))
}

func (h *handlers) turn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req models.TurnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	s, err := h.sessions.Get(id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	reply, err := s.Turn(r.Context(), req.Text)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, session.ReplyView(id, reply, s.Ended()))
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot().View())
}

func (h *handlers) end(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(chi.URLParam(r, "id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
		msg = "internal error"
	}
	writeJSON(w, code, models.ErrorView{Error: msg})
}

// recordRequests counts requests by route pattern and status code.
func recordRequests(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = r.Method + " " + rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.RecordRequest("http", route, strconv.Itoa(status))
		})
	}
}
