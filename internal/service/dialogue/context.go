package dialogue

import (
	"cloud.google.com/go/civil"

	"hospital-voice-agent/internal/models"
)

// Intent is the caller goal recorded in INTENT_SELECTION.
type Intent int

const (
	IntentNone Intent = iota
	IntentBooking
	IntentReschedule
	IntentCancel
)

func (i Intent) String() string {
	switch i {
	case IntentBooking:
		return "booking"
	case IntentReschedule:
		return "reschedule"
	case IntentCancel:
		return "cancel"
	default:
		return "none"
	}
}

// Context accumulates the slots filled during one conversation. A zero value
// or nil pointer means the slot has not been filled yet.
type Context struct {
	Intent       Intent
	PatientName  string
	Department   models.Department
	Doctors      []models.Doctor // candidates for Department
	Doctor       *models.Doctor
	Date         *civil.Date
	OfferedSlots []string
	Time         string

	// Existing is the active appointment being rescheduled.
	Existing *models.Appointment
	// AppointmentID is set once a booking has been saved.
	AppointmentID string
}

// Clone returns a deep copy of c.
func (c Context) Clone() Context {
	out := c
	out.Doctors = append([]models.Doctor(nil), c.Doctors...)
	out.OfferedSlots = append([]string(nil), c.OfferedSlots...)
	if c.Doctor != nil {
		d := *c.Doctor
		out.Doctor = &d
	}
	if c.Date != nil {
		d := *c.Date
		out.Date = &d
	}
	if c.Existing != nil {
		e := *c.Existing
		out.Existing = &e
	}
	return out
}
