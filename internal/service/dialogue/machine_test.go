package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-voice-agent/internal/directory"
	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/service/extract"
	"hospital-voice-agent/internal/store"
	"hospital-voice-agent/internal/store/memory"
)

// Monday.
var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return testNow }
	return opts
}

func newTestMachine(t *testing.T, st store.Store, opts Options) *Machine {
	t.Helper()
	m := New(directory.Default(), st, opts)
	m.Open()
	require.Equal(t, StateIntentSelection, m.State())
	return m
}

type step struct {
	say  string
	want State
}

func drive(t *testing.T, m *Machine, steps ...step) Reply {
	t.Helper()
	var last Reply
	for _, s := range steps {
		reply, err := m.Handle(context.Background(), s.say)
		require.NoError(t, err, "utterance %q", s.say)
		require.Equal(t, s.want, reply.State, "utterance %q replied %q", s.say, reply.Text)
		last = reply
	}
	return last
}

func seed(t *testing.T, st *memory.Store, id, patient string, status models.AppointmentStatus) {
	t.Helper()
	require.NoError(t, st.Save(context.Background(), models.Appointment{
		ID:          id,
		PatientName: patient,
		Doctor:      "Dr. Priya Nair",
		Department:  models.DepartmentCardiology,
		Date:        "2026-10-22",
		Time:        "10:00 AM",
		Status:      status,
	}))
}

func TestMachine_Open(t *testing.T) {
	m := New(directory.Default(), memory.New(), testOptions())
	assert.Equal(t, StateOpening, m.State())

	reply := m.Open()
	assert.Equal(t, StateOpening, reply.From)
	assert.Equal(t, StateIntentSelection, reply.State)
	assert.Contains(t, reply.Text, "CityCare Hospital appointment desk")
}

func TestMachine_HandleInOpeningGreets(t *testing.T) {
	m := New(directory.Default(), memory.New(), testOptions())
	reply, err := m.Handle(context.Background(), "hello?")
	require.NoError(t, err)
	assert.Equal(t, StateIntentSelection, reply.State)
	assert.Contains(t, reply.Text, "How may I help you today?")
}

func TestMachine_BookingScenario(t *testing.T) {
	st := memory.New()
	m := newTestMachine(t, st, testOptions())

	drive(t, m,
		step{"I want to book an appointment", StateCollectPatientName},
		step{"this is Maria Lopez", StateCollectDepartment},
	)
	assert.Equal(t, IntentBooking, m.Context().Intent)
	assert.Equal(t, "Maria Lopez", m.Context().PatientName)

	reply := drive(t, m, step{"cardiology", StateSelectDoctorPreference})
	assert.NotEmpty(t, m.Context().Doctors)
	assert.Equal(t, "The available doctors in Cardiology are Dr. Anil Mehta, Dr. Priya Nair. Do you have a preferred doctor?", reply.Text)

	reply = drive(t, m, step{"most experienced", StateCollectDate})
	require.NotNil(t, m.Context().Doctor)
	assert.Equal(t, "Dr. Anil Mehta", m.Context().Doctor.Name)
	assert.Contains(t, reply.Text, "18 years of experience")

	reply = drive(t, m, step{"tomorrow", StateOfferSlots})
	require.NotNil(t, m.Context().Date)
	assert.Equal(t, "2026-10-20", m.Context().Date.String())
	assert.Equal(t, []string{"10:00 AM", "11:00 AM", "11:30 AM", "2:00 PM", "4:30 PM"}, m.Context().OfferedSlots)
	assert.Contains(t, reply.Text, "Tuesday, 20 October 2026")

	reply = drive(t, m, step{"11am", StateConfirmDetails})
	assert.Equal(t, "11:00 AM", m.Context().Time)
	assert.Equal(t,
		"To confirm, an appointment for Maria Lopez with Dr. Anil Mehta in Cardiology on Tuesday, 20 October 2026 at 11:00 AM. Shall I book it?",
		reply.Text)

	reply = drive(t, m, step{"yes", StateClose})
	require.NotNil(t, reply.Booked)
	assert.Equal(t, models.StatusConfirmed, reply.Booked.Status)
	assert.Contains(t, reply.Text, reply.Booked.ID)
	assert.Equal(t, reply.Booked.ID, m.Context().AppointmentID)

	saved, ok := st.Get(reply.Booked.ID)
	require.True(t, ok)
	assert.Equal(t, models.Appointment{
		ID:          reply.Booked.ID,
		PatientName: "Maria Lopez",
		Doctor:      "Dr. Anil Mehta",
		Department:  models.DepartmentCardiology,
		Date:        "2026-10-20",
		Time:        "11:00 AM",
		Status:      models.StatusConfirmed,
		CreatedAt:   saved.CreatedAt,
		UpdatedAt:   saved.UpdatedAt,
	}, saved)
}

func TestMachine_UniqueIDsAcrossBookings(t *testing.T) {
	st := memory.New()
	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		m := newTestMachine(t, st, testOptions())
		reply := drive(t, m,
			step{"book", StateCollectPatientName},
			step{"Maria Lopez", StateCollectDepartment},
			step{"dermatology", StateSelectDoctorPreference},
			step{"Neha Kapoor", StateCollectDate},
			step{"tomorrow", StateOfferSlots},
			step{"2 pm", StateConfirmDetails},
			step{"yes please", StateClose},
		)
		require.NotNil(t, reply.Booked)
		assert.False(t, ids[reply.Booked.ID])
		ids[reply.Booked.ID] = true
	}
	assert.Equal(t, 3, st.Len())
}

func TestMachine_DoctorByName(t *testing.T) {
	m := newTestMachine(t, memory.New(), testOptions())
	reply := drive(t, m,
		step{"book an appointment", StateCollectPatientName},
		step{"John Carter", StateCollectDepartment},
		step{"I need a cardiology doctor", StateSelectDoctorPreference},
		step{"yes doctor Priya Nair", StateCollectDate},
	)
	assert.Equal(t, "Dr. Priya Nair", m.Context().Doctor.Name)
	assert.Equal(t, "Dr. Priya Nair is available. Do you have a specific date you would like to visit?", reply.Text)
}

func TestMachine_DefaultsToMostExperienced(t *testing.T) {
	m := newTestMachine(t, memory.New(), testOptions())
	reply := drive(t, m,
		step{"book an appointment", StateCollectPatientName},
		step{"John Carter", StateCollectDepartment},
		step{"neurology", StateSelectDoctorPreference},
		step{"anyone is fine", StateCollectDate},
	)
	assert.Equal(t, "Dr. Suresh Iyer", m.Context().Doctor.Name)
	assert.Contains(t, reply.Text, "I would recommend Dr. Suresh Iyer")
}

func TestMachine_ConfirmRecommendation(t *testing.T) {
	opts := testOptions()
	opts.ConfirmRecommendation = true

	t.Run("accepted", func(t *testing.T) {
		m := newTestMachine(t, memory.New(), opts)
		reply := drive(t, m,
			step{"book an appointment", StateCollectPatientName},
			step{"John Carter", StateCollectDepartment},
			step{"cardiology", StateSelectDoctorPreference},
			step{"the best doctor you have", StateConfirmAppointment},
		)
		assert.Contains(t, reply.Text, "Would you like to book an appointment with Dr. Anil Mehta?")
		drive(t, m, step{"yes", StateCollectDate})
		assert.Equal(t, "Dr. Anil Mehta", m.Context().Doctor.Name)
	})

	t.Run("declined", func(t *testing.T) {
		m := newTestMachine(t, memory.New(), opts)
		reply := drive(t, m,
			step{"book an appointment", StateCollectPatientName},
			step{"John Carter", StateCollectDepartment},
			step{"cardiology", StateSelectDoctorPreference},
			step{"someone senior", StateConfirmAppointment},
			step{"no", StateSelectDoctorPreference},
		)
		assert.Contains(t, reply.Text, "Dr. Priya Nair")
		drive(t, m, step{"Priya Nair", StateCollectDate})
		assert.Equal(t, "Dr. Priya Nair", m.Context().Doctor.Name)
	})
}

func TestMachine_NoSlotsRoutesBackToDoctorSelection(t *testing.T) {
	m := newTestMachine(t, memory.New(), testOptions())
	reply := drive(t, m,
		step{"book an appointment", StateCollectPatientName},
		step{"John Carter", StateCollectDepartment},
		step{"cardiology", StateSelectDoctorPreference},
		step{"Anil Mehta", StateCollectDate},
		step{"25 oct", StateSelectDoctorPreference}, // Sunday
	)
	assert.Contains(t, reply.Text, "no available slots on Sunday, 25 October 2026")
	assert.Nil(t, m.Context().Date)

	drive(t, m,
		step{"Priya Nair", StateCollectDate},
		step{"26th october", StateOfferSlots},
	)
	assert.Equal(t, "Dr. Priya Nair", m.Context().Doctor.Name)
}

func TestMachine_DateRetries(t *testing.T) {
	m := newTestMachine(t, memory.New(), testOptions())
	drive(t, m,
		step{"book an appointment", StateCollectPatientName},
		step{"John Carter", StateCollectDepartment},
		step{"ent", StateSelectDoctorPreference},
		step{"Arjun Desai", StateCollectDate},
	)

	for _, utterance := range []string{"sometime soon", "31 feb", "1 oct"} {
		reply, err := m.Handle(context.Background(), utterance)
		require.NoError(t, err)
		assert.True(t, reply.Miss, utterance)
		assert.Equal(t, StateCollectDate, reply.State, utterance)
	}
	assert.Nil(t, m.Context().Date)
}

func TestMachine_ConfirmDetailsBranches(t *testing.T) {
	m := newTestMachine(t, memory.New(), testOptions())
	drive(t, m,
		step{"book an appointment", StateCollectPatientName},
		step{"John Carter", StateCollectDepartment},
		step{"pediatrics", StateSelectDoctorPreference},
		step{"Latha Menon", StateCollectDate},
		step{"tomorrow", StateOfferSlots},
		step{"at noon", StateOfferSlots},
		step{"4:30 pm", StateConfirmDetails},
	)

	reply := drive(t, m, step{"hmm", StateConfirmDetails})
	assert.True(t, reply.Miss)

	for _, refusal := range []string{"no, don't book it", "no, I'm not sure"} {
		reply = drive(t, m, step{refusal, StateConfirmDetails})
		assert.True(t, reply.Miss, refusal)
		assert.Nil(t, reply.Booked, refusal)
	}

	reply = drive(t, m, step{"no", StateCollectDate})
	assert.Equal(t, promptDifferentDate, reply.Text)
}

// failingUpdateStore rejects status updates on one id.
type failingUpdateStore struct {
	*memory.Store
	failID string
}

func (f *failingUpdateStore) Update(ctx context.Context, id string, upd store.Update) error {
	if id == f.failID {
		return errors.New("db down")
	}
	return f.Store.Update(ctx, id, upd)
}

func TestMachine_RescheduleWithdrawsNewBookingWhenCancelFails(t *testing.T) {
	mem := memory.New()
	seed(t, mem, "APT-000007", "John Carter", models.StatusConfirmed)
	m := newTestMachine(t, &failingUpdateStore{Store: mem, failID: "APT-000007"}, testOptions())

	drive(t, m,
		step{"reschedule", StateCollectPatientName},
		step{"John Carter", StateRescheduleConfirm},
		step{"yes", StateCollectDepartment},
		step{"neurology", StateSelectDoctorPreference},
		step{"Suresh Iyer", StateCollectDate},
		step{"tomorrow", StateOfferSlots},
		step{"10 am", StateConfirmDetails},
	)

	_, err := m.Handle(context.Background(), "correct")
	var cerr *CollaboratorError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, StateConfirmDetails, m.State())
	assert.Empty(t, m.Context().AppointmentID)

	require.Equal(t, 2, mem.Len())
	old, _ := mem.Get("APT-000007")
	assert.Equal(t, models.StatusConfirmed, old.Status)
	renewed, ok := mem.Get("APT-100001")
	require.True(t, ok)
	assert.Equal(t, models.StatusCancelled, renewed.Status)
}

func TestMachine_CancelScenario(t *testing.T) {
	st := memory.New()
	seed(t, st, "APT-000042", "Maria Lopez", models.StatusConfirmed)
	m := newTestMachine(t, st, testOptions())

	drive(t, m,
		step{"please cancel my appointment", StateCollectPatientName},
		step{"my name is maria lopez", StateCancelConfirm},
	)
	assert.Equal(t, IntentCancel, m.Context().Intent)

	reply := drive(t, m, step{"yes", StateClose})
	require.NotNil(t, reply.Cancelled)
	assert.Equal(t, "APT-000042", reply.Cancelled.ID)
	assert.Contains(t, reply.Text, "has been cancelled")

	saved, ok := st.Get("APT-000042")
	require.True(t, ok)
	assert.Equal(t, models.StatusCancelled, saved.Status)
}

func TestMachine_CancelBranches(t *testing.T) {
	tests := []struct {
		name     string
		status   models.AppointmentStatus
		answer   string
		contains string
		final    models.AppointmentStatus
	}{
		{"declined", models.StatusConfirmed, "no, don't", "remains unchanged", models.StatusConfirmed},
		{"already cancelled", models.StatusCancelled, "yes", "couldn't find an active appointment", models.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := memory.New()
			seed(t, st, "APT-1", "John Carter", tt.status)
			m := newTestMachine(t, st, testOptions())
			reply := drive(t, m,
				step{"cancel", StateCollectPatientName},
				step{"John Carter", StateCancelConfirm},
				step{tt.answer, StateClose},
			)
			assert.Contains(t, reply.Text, tt.contains)
			assert.Nil(t, reply.Cancelled)
			saved, _ := st.Get("APT-1")
			assert.Equal(t, tt.final, saved.Status)
		})
	}
}

func TestMachine_CancelNotFound(t *testing.T) {
	m := newTestMachine(t, memory.New(), testOptions())
	reply := drive(t, m,
		step{"delete my booking", StateCollectPatientName},
		step{"Nobody Known", StateCancelConfirm},
		step{"sure", StateClose},
	)
	assert.Contains(t, reply.Text, "front desk")
}

func TestMachine_RescheduleScenario(t *testing.T) {
	st := memory.New()
	seed(t, st, "APT-000007", "John Carter", models.StatusConfirmed)
	m := newTestMachine(t, st, testOptions())

	reply := drive(t, m,
		step{"I need to change my appointment", StateCollectPatientName},
		step{"John Carter", StateRescheduleConfirm},
		step{"yes", StateCollectDepartment},
	)
	assert.Equal(t, IntentReschedule, m.Context().Intent)
	require.NotNil(t, m.Context().Existing)
	assert.Contains(t, reply.Text, "Dr. Priya Nair on Thursday, 22 October 2026 at 10:00 AM")

	reply = drive(t, m,
		step{"neurology", StateSelectDoctorPreference},
		step{"Suresh Iyer", StateCollectDate},
		step{"tomorrow", StateOfferSlots},
		step{"10 am", StateConfirmDetails},
		step{"correct", StateClose},
	)
	require.NotNil(t, reply.Booked)
	assert.Equal(t, "APT-000007", reply.PreviousID)
	assert.Contains(t, reply.Text, "has been rescheduled")

	old, _ := st.Get("APT-000007")
	assert.Equal(t, models.StatusCancelled, old.Status)
	renewed, ok := st.Get(reply.Booked.ID)
	require.True(t, ok)
	assert.Equal(t, "Dr. Suresh Iyer", renewed.Doctor)
	assert.Equal(t, "2026-10-20", renewed.Date)
	assert.Equal(t, models.StatusConfirmed, renewed.Status)
}

func TestMachine_RescheduleBranches(t *testing.T) {
	m := newTestMachine(t, memory.New(), testOptions())
	reply := drive(t, m,
		step{"reschedule", StateCollectPatientName},
		step{"John Carter", StateRescheduleConfirm},
		step{"yep", StateClose},
	)
	assert.Contains(t, reply.Text, "couldn't find an active appointment under the name John Carter")

	m = newTestMachine(t, memory.New(), testOptions())
	reply = drive(t, m,
		step{"reschedule", StateCollectPatientName},
		step{"John Carter", StateRescheduleConfirm},
		step{"what?", StateRescheduleConfirm},
		step{"not interested", StateClose},
	)
	assert.Contains(t, reply.Text, "remains unchanged")
}

func TestMachine_IntentPriority(t *testing.T) {
	tests := []struct {
		say  string
		want Intent
	}{
		{"book an appointment", IntentBooking},
		{"cancel my appointment", IntentCancel},
		{"I want to reschedule my appointment", IntentReschedule},
		{"change or cancel it", IntentReschedule},
	}
	for _, tt := range tests {
		t.Run(tt.say, func(t *testing.T) {
			m := newTestMachine(t, memory.New(), testOptions())
			drive(t, m, step{tt.say, StateCollectPatientName})
			assert.Equal(t, tt.want, m.Context().Intent)
		})
	}
}

func TestMachine_CloseIsIdempotent(t *testing.T) {
	m := newTestMachine(t, memory.New(), testOptions())
	drive(t, m,
		step{"cancel", StateCollectPatientName},
		step{"John Carter", StateCancelConfirm},
		step{"no", StateClose},
	)
	before := m.Context()

	for _, utterance := range []string{"book an appointment", "what is the fee for Anil Mehta", "yes", ""} {
		reply, err := m.Handle(context.Background(), utterance)
		require.NoError(t, err)
		assert.Equal(t, "Thank you for calling CityCare Hospital. Have a pleasant day.", reply.Text)
		assert.Equal(t, StateClose, reply.State)
		assert.False(t, reply.FeeQuery)
	}
	assert.Equal(t, before, m.Context())
}

func TestMachine_RepromptBound(t *testing.T) {
	m := newTestMachine(t, memory.New(), testOptions())

	drive(t, m,
		step{"hmm", StateIntentSelection},
		step{"hmm", StateIntentSelection},
		step{"book", StateCollectPatientName},
	)

	const rambling = "i am not really able to say anything useful here"
	for i := 0; i < 3; i++ {
		reply := drive(t, m, step{rambling, StateCollectPatientName})
		assert.True(t, reply.Miss)
		assert.False(t, reply.RepromptLimit)
	}
	reply := drive(t, m, step{rambling, StateClose})
	assert.True(t, reply.RepromptLimit)
	assert.Contains(t, reply.Text, "front desk")
}

func TestMachine_RepromptBoundDisabled(t *testing.T) {
	opts := testOptions()
	opts.MaxReprompts = 0
	m := newTestMachine(t, memory.New(), opts)
	for i := 0; i < 20; i++ {
		drive(t, m, step{"hmm", StateIntentSelection})
	}
}

func TestMachine_FeeSideChannel(t *testing.T) {
	m := newTestMachine(t, memory.New(), testOptions())

	reply := drive(t, m, step{"what is the fee for Anil Mehta", StateIntentSelection})
	assert.True(t, reply.FeeQuery)
	assert.Equal(t, "The consultation fee for Dr. Anil Mehta is 1200 rupees.", reply.Text)

	reply = drive(t, m, step{"what are the fees", StateIntentSelection})
	assert.Equal(t, promptDoctorNotFound, reply.Text)

	drive(t, m,
		step{"book", StateCollectPatientName},
		step{"John Carter", StateCollectDepartment},
		step{"orthopedics", StateSelectDoctorPreference},
	)

	reply = drive(t, m, step{"consultation fee of Kavita Rao?", StateSelectDoctorPreference})
	assert.Equal(t, "The consultation fee for Dr. Kavita Rao is 800 rupees.", reply.Text)
	assert.Nil(t, m.Context().Doctor)

	drive(t, m, step{"Kavita Rao", StateCollectDate})
	reply = drive(t, m, step{"and her fees?", StateCollectDate})
	assert.Equal(t, "The consultation fee for Dr. Kavita Rao is 800 rupees.", reply.Text)
}

func TestMachine_FeeQueryDoesNotCountAsMiss(t *testing.T) {
	opts := testOptions()
	opts.MaxReprompts = 1
	m := newTestMachine(t, memory.New(), opts)
	drive(t, m,
		step{"hmm", StateIntentSelection},
		step{"fees?", StateIntentSelection},
		step{"fees?", StateIntentSelection},
		step{"hmm", StateClose},
	)
}

func TestMachine_CustomWording(t *testing.T) {
	opts := testOptions()
	opts.HospitalName = "Riverside Clinic"
	opts.Currency = "dollars"
	m := New(directory.Default(), memory.New(), opts)
	assert.Contains(t, m.Open().Text, "Riverside Clinic")
	reply := drive(t, m, step{"fee for Farah Khan", StateIntentSelection})
	assert.Equal(t, "The consultation fee for Dr. Farah Khan is 400 dollars.", reply.Text)
}

type stubDirectory struct {
	directory.Directory
	doctors    []models.Doctor
	doctorsErr error
	slotsErr   error
}

func (s stubDirectory) Doctors(ctx context.Context, dept models.Department) ([]models.Doctor, error) {
	return s.doctors, s.doctorsErr
}

func (s stubDirectory) Slots(ctx context.Context, d models.Doctor, date civil.Date) ([]string, error) {
	return []string{"9:00 AM"}, s.slotsErr
}

func TestMachine_EmptyDepartmentStays(t *testing.T) {
	m := New(stubDirectory{}, memory.New(), testOptions())
	m.Open()
	reply := drive(t, m,
		step{"book", StateCollectPatientName},
		step{"John Carter", StateCollectDepartment},
		step{"gynecology", StateCollectDepartment},
	)
	assert.True(t, reply.Miss)
	assert.Contains(t, reply.Text, "no doctors available in Gynecology")
}

func TestMachine_DirectoryErrorLeavesStateUntouched(t *testing.T) {
	boom := errors.New("directory offline")
	m := New(stubDirectory{doctorsErr: boom}, memory.New(), testOptions())
	m.Open()
	drive(t, m,
		step{"book", StateCollectPatientName},
		step{"John Carter", StateCollectDepartment},
	)
	before := m.Context()

	reply, err := m.Handle(context.Background(), "cardiology")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateCollectDepartment, reply.State)
	assert.Equal(t, StateCollectDepartment, m.State())
	assert.Equal(t, before, m.Context())
}

type failingStore struct {
	*memory.Store
	saveErr error
}

func (f failingStore) Save(ctx context.Context, appt models.Appointment) error {
	return f.saveErr
}

func TestMachine_StoreErrorLeavesStateUntouched(t *testing.T) {
	boom := errors.New("disk full")
	m := newTestMachine(t, failingStore{Store: memory.New(), saveErr: boom}, testOptions())
	drive(t, m,
		step{"book", StateCollectPatientName},
		step{"John Carter", StateCollectDepartment},
		step{"cardiology", StateSelectDoctorPreference},
		step{"Anil Mehta", StateCollectDate},
		step{"tomorrow", StateOfferSlots},
		step{"11:30", StateConfirmDetails},
	)
	before := m.Context()

	_, err := m.Handle(context.Background(), "yes")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateConfirmDetails, m.State())
	assert.Equal(t, before, m.Context())
	assert.Empty(t, m.Context().AppointmentID)
}

func TestMachine_EveryStateHasAHandler(t *testing.T) {
	for _, s := range States {
		m := New(directory.Default(), memory.New(), testOptions())
		m.state = s
		c := m.Context()
		_, err := m.step(context.Background(), extractUtterance("yes"), &c)
		assert.False(t, errors.Is(err, ErrUnknownState), "state %v has no handler", s)
	}

	m := New(directory.Default(), memory.New(), testOptions())
	m.state = State(42)
	_, err := m.Handle(context.Background(), "yes")
	assert.ErrorIs(t, err, ErrUnknownState)
}

func extractUtterance(s string) extract.Utterance {
	return extract.Normalize(s)
}

func TestMachine_CollaboratorErrorNamesComponent(t *testing.T) {
	m := New(stubDirectory{doctorsErr: errors.New("timeout")}, memory.New(), testOptions())
	m.Open()
	drive(t, m,
		step{"book", StateCollectPatientName},
		step{"John Carter", StateCollectDepartment},
	)
	_, err := m.Handle(context.Background(), "cardiology")

	var cerr *CollaboratorError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "directory", cerr.Component)
	assert.Equal(t, "list doctors in Cardiology", cerr.Op)
}
