// Package models defines the domain records and the events published about them.
package models

// Event types published by the conversation engine.
const (
	EventTurn                   = "conversation.turn"
	EventAppointmentBooked      = "appointment.booked"
	EventAppointmentCancelled   = "appointment.cancelled"
	EventAppointmentRescheduled = "appointment.rescheduled"
)

// TurnEvent describes one processed caller utterance and the agent's reply.
type TurnEvent struct {
	EventType   string `json:"eventType"`
	SessionID   string `json:"sessionId"`
	Timestamp   int64  `json:"timestamp"`
	Turn        int    `json:"turn"`
	UserText    string `json:"userText"`
	Reply       string `json:"reply"`
	StateBefore string `json:"stateBefore"`
	StateAfter  string `json:"stateAfter"`
}

// AppointmentEvent is emitted when a conversation books or cancels an appointment.
// A reschedule carries both the new appointment and the id it replaced.
type AppointmentEvent struct {
	EventType   string      `json:"eventType"`
	SessionID   string      `json:"sessionId"`
	Timestamp   int64       `json:"timestamp"`
	Appointment Appointment `json:"appointment"`
	PreviousID  string      `json:"previousId,omitempty"`
}
