package session

import (
	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/service/dialogue"
)

// ReplyView renders a reply of session id for the server adapters.
func ReplyView(id string, r dialogue.Reply, ended bool) models.ReplyView {
	return models.ReplyView{
		SessionID:   id,
		Text:        r.Text,
		StateBefore: r.From.String(),
		State:       r.State.String(),
		Miss:        r.Miss,
		FeeQuery:    r.FeeQuery,
		Ended:       ended,
		Booked:      r.Booked,
		Cancelled:   r.Cancelled,
		PreviousID:  r.PreviousID,
	}
}

// View renders the snapshot for the server adapters.
func (s Snapshot) View() models.SessionView {
	c := s.Context
	v := models.SessionView{
		SessionID:     s.ID,
		State:         s.State.String(),
		Intent:        c.Intent.String(),
		PatientName:   c.PatientName,
		Department:    c.Department,
		Time:          c.Time,
		AppointmentID: c.AppointmentID,
		Turns:         s.Turns,
		Ended:         s.Ended,
		EndReason:     s.EndReason,
		Started:       s.Started,
		LastActive:    s.LastActive,
		Transcript:    make([]models.TranscriptEntry, 0, len(s.Transcript)),
	}
	if c.Doctor != nil {
		v.Doctor = c.Doctor.Name
	}
	if c.Date != nil {
		v.Date = c.Date.String()
	}
	for _, e := range s.Transcript {
		v.Transcript = append(v.Transcript, models.TranscriptEntry{Role: e.Role, Text: e.Text, State: e.State, At: e.At})
	}
	return v
}
