package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hospital-voice-agent/internal/service/dialogue"
)

// Manager holds the open sessions of the server adapters.
// Each session is independent; the manager lock only guards the map.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	deps     Deps
	ttl      time.Duration
	newID    func() string
}

// NewManager creates a manager. Sessions idle longer than ttl are removed by
// Sweep; a zero ttl keeps them until End.
func NewManager(deps Deps, ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps.withDefaults(),
		ttl:      ttl,
		newID:    uuid.NewString,
	}
}

// Start opens a new session and returns it with the greeting.
func (m *Manager) Start(ctx context.Context) (*Session, dialogue.Reply) {
	s := New(m.newID(), m.deps)
	reply := s.Open(ctx)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, reply
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Turn routes an utterance to the session with id.
func (m *Manager) Turn(ctx context.Context, id, text string) (dialogue.Reply, error) {
	s, err := m.Get(id)
	if err != nil {
		return dialogue.Reply{}, err
	}
	return s.Turn(ctx, text)
}

// End closes and forgets the session with id.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.End(ReasonEnded)
	return nil
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns how many
// were removed.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.deps.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.End(ReasonExpired)
	}
	if len(expired) > 0 {
		log.Info().Int("expired", len(expired)).Msg("Swept idle sessions")
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Shutdown ends every open session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.End(ReasonEnded)
	}
}
