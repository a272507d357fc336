// Package store defines the appointment store the conversation engine books
// into. Backends live in the memory, postgres and redis subpackages.
package store

import (
	"context"
	"errors"
	"fmt"

	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/schema"
)

// ErrNotFound is returned when no appointment matches a lookup or update.
var ErrNotFound = errors.New("store: appointment not found")

// Update carries the fields of an appointment that may change after booking.
// Only the status is mutable.
type Update struct {
	Status models.AppointmentStatus
}

// Store persists appointment records. Each call succeeds or fails atomically;
// callers do not retry.
type Store interface {
	// GenerateID returns an id no other appointment in the store holds.
	GenerateID(ctx context.Context) (string, error)

	// Save inserts a new appointment.
	Save(ctx context.Context, appt models.Appointment) error

	// FindByPatientName returns the most recently created appointment for
	// name, compared case-insensitively, or ErrNotFound.
	FindByPatientName(ctx context.Context, name string) (models.Appointment, error)

	// Update applies upd to the appointment with id, or returns ErrNotFound.
	Update(ctx context.Context, id string, upd Update) error
}

var validator = schema.New()

// Validate checks a record before a backend writes it.
func Validate(appt models.Appointment) error {
	return validator.Validate(appt)
}

// ValidateUpdate rejects updates that would not change anything valid.
func ValidateUpdate(upd Update) error {
	switch upd.Status {
	case models.StatusConfirmed, models.StatusCancelled:
		return nil
	default:
		return fmt.Errorf("store: invalid status %q", upd.Status)
	}
}

// FormatID renders a sequence number as a spoken-friendly appointment id.
func FormatID(n int64) string {
	return fmt.Sprintf("APT-%06d", n)
}

// DuplicateError reports a Save of an id that is already stored.
type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("store: appointment %s already exists", e.ID)
}
