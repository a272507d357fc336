package models

import "time"

// AppointmentStatus is the lifecycle status of a stored appointment.
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment is the persisted booking record.
// Date is an ISO-8601 calendar date and Time is the offered slot label.
type Appointment struct {
	ID          string            `json:"id" validate:"required"`
	PatientName string            `json:"patientName" validate:"required"`
	Doctor      string            `json:"doctor" validate:"required"`
	Department  Department        `json:"department" validate:"required"`
	Date        string            `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string            `json:"time" validate:"required"`
	Status      AppointmentStatus `json:"status" validate:"required,oneof=CONFIRMED CANCELLED"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// IsActive reports whether the appointment still holds a slot.
func (a Appointment) IsActive() bool {
	return a.Status == StatusConfirmed
}
