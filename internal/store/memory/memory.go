// Package memory is an in-process appointment store for development and tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/store"
)

const firstID = 100001

// Store keeps appointments in insertion order.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]int
	items  []models.Appointment
	nextID int64
	now    func() time.Time
}

func New() *Store {
	return &Store{
		byID:   make(map[string]int),
		nextID: firstID,
		now:    time.Now,
	}
}

func (s *Store) GenerateID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		id := store.FormatID(s.nextID)
		s.nextID++
		if _, taken := s.byID[id]; !taken {
			return id, nil
		}
	}
}

func (s *Store) Save(ctx context.Context, appt models.Appointment) error {
	if err := store.Validate(appt); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[appt.ID]; exists {
		return &store.DuplicateError{ID: appt.ID}
	}
	now := s.now().UTC()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now
	s.byID[appt.ID] = len(s.items)
	s.items = append(s.items, appt)
	return nil
}

func (s *Store) FindByPatientName(ctx context.Context, name string) (models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := strings.TrimSpace(name)
	for i := len(s.items) - 1; i >= 0; i-- {
		if strings.EqualFold(s.items[i].PatientName, want) {
			return s.items[i], nil
		}
	}
	return models.Appointment{}, store.ErrNotFound
}

func (s *Store) Update(ctx context.Context, id string, upd store.Update) error {
	if err := store.ValidateUpdate(upd); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	s.items[idx].Status = upd.Status
	s.items[idx].UpdatedAt = s.now().UTC()
	return nil
}

// Get returns the appointment with id.
func (s *Store) Get(id string) (models.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return models.Appointment{}, false
	}
	return s.items[idx], true
}

// Len returns the number of stored appointments.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
