package models

import "time"

// StartRequest opens a conversation. It carries no fields today.
type StartRequest struct{}

// TurnRequest carries one caller utterance. Empty text is a valid utterance
// that the conversation treats as a miss.
type TurnRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Text      string `json:"text"`
}

// EndRequest closes a conversation.
type EndRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// Session returns the addressed session id.
func (r *TurnRequest) Session() string { return r.SessionID }

// Session returns the addressed session id.
func (r *EndRequest) Session() string { return r.SessionID }

// EndResponse acknowledges an EndRequest.
type EndResponse struct {
	SessionID string `json:"sessionId"`
}

// ReplyView is the agent's answer to a start or a turn.
type ReplyView struct {
	SessionID   string       `json:"sessionId"`
	Text        string       `json:"text"`
	StateBefore string       `json:"stateBefore,omitempty"`
	State       string       `json:"state"`
	Miss        bool         `json:"miss,omitempty"`
	FeeQuery    bool         `json:"feeQuery,omitempty"`
	Ended       bool         `json:"ended"`
	Booked      *Appointment `json:"booked,omitempty"`
	Cancelled   *Appointment `json:"cancelled,omitempty"`
	PreviousID  string       `json:"previousId,omitempty"`
}

// TranscriptEntry is one line of a conversation.
type TranscriptEntry struct {
	Role  string    `json:"role"`
	Text  string    `json:"text"`
	State string    `json:"state"`
	At    time.Time `json:"at"`
}

// SessionView is the externally visible state of a conversation.
type SessionView struct {
	SessionID     string            `json:"sessionId"`
	State         string            `json:"state"`
	Intent        string            `json:"intent"`
	PatientName   string            `json:"patientName,omitempty"`
	Department    Department        `json:"department,omitempty"`
	Doctor        string            `json:"doctor,omitempty"`
	Date          string            `json:"date,omitempty"`
	Time          string            `json:"time,omitempty"`
	AppointmentID string            `json:"appointmentId,omitempty"`
	Turns         int               `json:"turns"`
	Ended         bool              `json:"ended"`
	EndReason     string            `json:"endReason,omitempty"`
	Started       time.Time         `json:"started"`
	LastActive    time.Time         `json:"lastActive"`
	Transcript    []TranscriptEntry `json:"transcript"`
}

// ErrorView is the body of a failed HTTP request.
type ErrorView struct {
	Error string `json:"error"`
}
