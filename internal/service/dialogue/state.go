// Package dialogue implements the appointment desk conversation as a finite
// state machine over extracted intent signals and entities.
package dialogue

import (
	"errors"
	"fmt"
)

// State is the active step of one conversation.
type State int

const (
	// StateOpening - Call connected, nothing said yet.
	StateOpening State = iota
	// StateIntentSelection - Waiting for book, reschedule or cancel.
	StateIntentSelection
	// StateCollectPatientName - Waiting for the patient's name.
	StateCollectPatientName
	// StateCollectDepartment - Waiting for a department of the catalog.
	StateCollectDepartment
	// StateSelectDoctorPreference - Doctors listed, waiting for a choice.
	StateSelectDoctorPreference
	// StateConfirmAppointment - A recommended doctor awaits a yes or no.
	StateConfirmAppointment
	// StateCollectDate - Waiting for the visit date.
	StateCollectDate
	// StateOfferSlots - Slots read out, waiting for a time.
	StateOfferSlots
	// StateConfirmDetails - Summary read back, waiting for a yes or no.
	StateConfirmDetails
	// StateRescheduleConfirm - Waiting for confirmation to reschedule.
	StateRescheduleConfirm
	// StateCancelConfirm - Waiting for confirmation to cancel.
	StateCancelConfirm
	// StateClose - Conversation over. Terminal.
	StateClose
)

// States lists every declared state in order.
var States = []State{
	StateOpening,
	StateIntentSelection,
	StateCollectPatientName,
	StateCollectDepartment,
	StateSelectDoctorPreference,
	StateConfirmAppointment,
	StateCollectDate,
	StateOfferSlots,
	StateConfirmDetails,
	StateRescheduleConfirm,
	StateCancelConfirm,
	StateClose,
}

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateOpening:
		return "OPENING"
	case StateIntentSelection:
		return "INTENT_SELECTION"
	case StateCollectPatientName:
		return "COLLECT_PATIENT_NAME"
	case StateCollectDepartment:
		return "COLLECT_DEPARTMENT"
	case StateSelectDoctorPreference:
		return "SELECT_DOCTOR_PREFERENCE"
	case StateConfirmAppointment:
		return "CONFIRM_APPOINTMENT"
	case StateCollectDate:
		return "COLLECT_DATE"
	case StateOfferSlots:
		return "OFFER_SLOTS"
	case StateConfirmDetails:
		return "CONFIRM_DETAILS"
	case StateRescheduleConfirm:
		return "RESCHEDULE_CONFIRM"
	case StateCancelConfirm:
		return "CANCEL_CONFIRM"
	case StateClose:
		return "CLOSE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true once the conversation has closed.
func (s State) IsTerminal() bool {
	return s == StateClose
}

// ParseState is the inverse of String.
func ParseState(name string) (State, error) {
	for _, s := range States {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownState, name)
}

var (
	// ErrUnknownState is returned when the machine holds a state it has no handler for.
	ErrUnknownState = errors.New("dialogue: unknown state")
	// ErrIncompleteContext is returned when a state is reached without the slots it reads.
	ErrIncompleteContext = errors.New("dialogue: context is missing a required slot")
)

// CollaboratorError wraps a failed directory or store call made during a turn.
type CollaboratorError struct {
	Component string // "directory" or "store"
	Op        string
	Err       error
}

func (e *CollaboratorError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func directoryErr(op string, err error) error {
	return &CollaboratorError{Component: "directory", Op: op, Err: err}
}

func storeErr(op string, err error) error {
	return &CollaboratorError{Component: "store", Op: op, Err: err}
}
