package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"hospital-voice-agent/internal/directory"
	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/service/extract"
	"hospital-voice-agent/internal/store"
)

// Options tune wording and policy of a Machine.
type Options struct {
	HospitalName string
	Currency     string

	// MaxReprompts bounds consecutive failed extractions in one state.
	// One more failure closes the call. Zero disables the bound.
	MaxReprompts int

	// ConfirmRecommendation asks the caller to accept the most experienced
	// doctor before moving on to the date.
	ConfirmRecommendation bool

	// Now returns the current time for relative dates.
	Now func() time.Time
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		HospitalName: "CityCare Hospital",
		Currency:     "rupees",
		MaxReprompts: 3,
		Now:          time.Now,
	}
}

// Reply is the result of one turn.
type Reply struct {
	Text  string
	From  State // state before the turn
	State State // state after the turn

	// Miss is set when the turn failed to extract what the state needs.
	Miss bool
	// RepromptLimit is set when the miss bound closed the call.
	RepromptLimit bool
	// FeeQuery is set when the fee side channel answered the turn.
	FeeQuery bool

	Booked    *models.Appointment
	Cancelled *models.Appointment
	// PreviousID is the id a rescheduled booking replaced.
	PreviousID string
}

// Machine drives one conversation. It owns its state and context exclusively
// and is not safe for concurrent use.
type Machine struct {
	dir    directory.Directory
	store  store.Store
	opts   Options
	say    prompter
	state  State
	ctx    Context
	misses int
}

// New creates a machine in OPENING.
func New(dir directory.Directory, st store.Store, opts Options) *Machine {
	def := DefaultOptions()
	if opts.HospitalName == "" {
		opts.HospitalName = def.HospitalName
	}
	if opts.Currency == "" {
		opts.Currency = def.Currency
	}
	if opts.MaxReprompts < 0 {
		opts.MaxReprompts = 0
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Machine{
		dir:   dir,
		store: st,
		opts:  opts,
		say:   prompter{opts: opts},
		state: StateOpening,
	}
}

// State returns the active state.
func (m *Machine) State() State {
	return m.state
}

// Context returns a copy of the conversation context.
func (m *Machine) Context() Context {
	return m.ctx.Clone()
}

// Open greets the caller and moves OPENING to INTENT_SELECTION. In any other
// state it returns the current state with the closing or menu prompt unchanged.
func (m *Machine) Open() Reply {
	from := m.state
	switch m.state {
	case StateOpening:
		m.state = StateIntentSelection
		return Reply{Text: m.say.greeting(), From: from, State: m.state}
	case StateClose:
		return Reply{Text: m.say.closing(), From: from, State: from}
	default:
		return Reply{Text: promptMenu, From: from, State: from}
	}
}

// outcome is what a state handler decided for one turn.
type outcome struct {
	next       State
	text       string
	miss       bool
	booked     *models.Appointment
	cancelled  *models.Appointment
	previousID string
}

func (m *Machine) stay(text string) outcome {
	return outcome{next: m.state, text: text, miss: true}
}

// Handle processes one caller utterance. A collaborator failure is returned
// as an error and leaves state and context as they were.
func (m *Machine) Handle(ctx context.Context, text string) (Reply, error) {
	from := m.state
	if from.IsTerminal() {
		return Reply{Text: m.say.closing(), From: from, State: from}, nil
	}

	u := extract.Normalize(text)
	if extract.FeeQuery(u.Text) {
		reply, err := m.answerFee(ctx, u)
		if err != nil {
			return Reply{From: from, State: from}, fmt.Errorf("dialogue: fee lookup: %w", err)
		}
		return reply, nil
	}

	c := m.ctx.Clone()
	out, err := m.step(ctx, u, &c)
	if err != nil {
		return Reply{From: from, State: from}, fmt.Errorf("dialogue: %s: %w", from, err)
	}

	reply := Reply{
		Text:       out.text,
		From:       from,
		Miss:       out.miss,
		Booked:     out.booked,
		Cancelled:  out.cancelled,
		PreviousID: out.previousID,
	}
	if out.miss {
		m.misses++
		if m.opts.MaxReprompts > 0 && m.misses > m.opts.MaxReprompts {
			out = outcome{next: StateClose, text: m.say.repromptLimit()}
			reply.Text = out.text
			reply.RepromptLimit = true
		}
	}
	if out.next != from || !out.miss {
		m.misses = 0
	}

	m.ctx = c
	m.state = out.next
	reply.State = m.state
	return reply, nil
}

func (m *Machine) step(ctx context.Context, u extract.Utterance, c *Context) (outcome, error) {
	switch m.state {
	case StateOpening:
		return outcome{next: StateIntentSelection, text: m.say.greeting()}, nil
	case StateIntentSelection:
		return m.selectIntent(u, c), nil
	case StateCollectPatientName:
		return m.collectName(u, c), nil
	case StateCollectDepartment:
		return m.collectDepartment(ctx, u, c)
	case StateSelectDoctorPreference:
		return m.selectDoctor(u, c), nil
	case StateConfirmAppointment:
		return m.confirmRecommendation(u, c)
	case StateCollectDate:
		return m.collectDate(ctx, u, c)
	case StateOfferSlots:
		return m.offerSlots(u, c)
	case StateConfirmDetails:
		return m.confirmDetails(ctx, u, c)
	case StateRescheduleConfirm:
		return m.confirmReschedule(ctx, u, c)
	case StateCancelConfirm:
		return m.confirmCancel(ctx, u, c)
	case StateClose:
		return outcome{next: StateClose, text: m.say.closing()}, nil
	default:
		return outcome{}, fmt.Errorf("%w: %s", ErrUnknownState, m.state)
	}
}

func (m *Machine) selectIntent(u extract.Utterance, c *Context) outcome {
	sig := extract.ClassifyIntent(u.Text)
	switch {
	case sig.Reschedule:
		c.Intent = IntentReschedule
	case sig.Cancel:
		c.Intent = IntentCancel
	case sig.Booking:
		c.Intent = IntentBooking
	default:
		return m.stay(promptMenuRetry)
	}
	return outcome{next: StateCollectPatientName, text: promptAskName}
}

func (m *Machine) collectName(u extract.Utterance, c *Context) outcome {
	name, ok := extract.PatientName(u.Raw)
	if !ok {
		return m.stay(promptNameRetry)
	}
	c.PatientName = name
	switch c.Intent {
	case IntentReschedule:
		return outcome{next: StateRescheduleConfirm, text: confirmIntent(IntentReschedule, name)}
	case IntentCancel:
		return outcome{next: StateCancelConfirm, text: confirmIntent(IntentCancel, name)}
	default:
		return outcome{next: StateCollectDepartment, text: askDepartment(name)}
	}
}

func (m *Machine) collectDepartment(ctx context.Context, u extract.Utterance, c *Context) (outcome, error) {
	dept, ok := extract.Department(u.Text)
	if !ok {
		return m.stay(promptDepartmentRetry), nil
	}
	doctors, err := m.dir.Doctors(ctx, dept)
	if err != nil {
		return outcome{}, directoryErr(fmt.Sprintf("list doctors in %s", dept), err)
	}
	if len(doctors) == 0 {
		return m.stay(noDoctors(dept)), nil
	}
	c.Department = dept
	c.Doctors = doctors
	return outcome{next: StateSelectDoctorPreference, text: listDoctors(dept, doctors)}, nil
}

func (m *Machine) selectDoctor(u extract.Utterance, c *Context) outcome {
	if d, ok := extract.Doctor(u.Text, c.Doctors); ok {
		c.Doctor = &d
		return outcome{next: StateCollectDate, text: doctorChosen(d)}
	}
	best, ok := models.MostExperienced(c.Doctors)
	if !ok {
		return outcome{next: StateCollectDepartment, text: promptAskDepartment}
	}
	c.Doctor = &best
	if !extract.Seniority(u.Text) {
		return outcome{next: StateCollectDate, text: recommendDefault(best)}
	}
	if m.opts.ConfirmRecommendation {
		return outcome{next: StateConfirmAppointment, text: mostExperienced(best, true)}
	}
	return outcome{next: StateCollectDate, text: mostExperienced(best, false)}
}

func (m *Machine) confirmRecommendation(u extract.Utterance, c *Context) (outcome, error) {
	if c.Doctor == nil {
		return outcome{}, ErrIncompleteContext
	}
	if extract.Matches(extract.CategoryAffirmative, u.Text) {
		return outcome{next: StateCollectDate, text: recommendationAccepted(*c.Doctor)}, nil
	}
	return outcome{next: StateSelectDoctorPreference, text: chooseAnother(c.Doctors)}, nil
}

func (m *Machine) collectDate(ctx context.Context, u extract.Utterance, c *Context) (outcome, error) {
	if c.Doctor == nil {
		return outcome{}, ErrIncompleteContext
	}
	now := m.opts.Now()
	date, ok := extract.Date(u.Text, now)
	if !ok {
		return m.stay(promptDateRetry), nil
	}
	if date.Before(civil.DateOf(now)) {
		return m.stay(promptDatePassed), nil
	}
	slots, err := m.dir.Slots(ctx, *c.Doctor, date)
	if err != nil {
		return outcome{}, directoryErr("slots for "+c.Doctor.Name, err)
	}
	if len(slots) == 0 {
		return outcome{next: StateSelectDoctorPreference, text: unavailable(*c.Doctor, date, c.Doctors)}, nil
	}
	c.Date = &date
	c.OfferedSlots = slots
	return outcome{next: StateOfferSlots, text: offerSlots(date, slots)}, nil
}

func (m *Machine) offerSlots(u extract.Utterance, c *Context) (outcome, error) {
	if c.Doctor == nil || c.Date == nil {
		return outcome{}, ErrIncompleteContext
	}
	slot, ok := extract.TimeSlot(u.Text, c.OfferedSlots)
	if !ok {
		return m.stay(slotRetry(c.OfferedSlots)), nil
	}
	c.Time = slot
	return outcome{next: StateConfirmDetails, text: summary(*c)}, nil
}

// confirmDetails books only on an unambiguous yes. Mixed signals
// ("no, don't book it" contains "ok") are asked again.
func (m *Machine) confirmDetails(ctx context.Context, u extract.Utterance, c *Context) (outcome, error) {
	sig := extract.ClassifyIntent(u.Text)
	switch {
	case sig.Affirmative && sig.Negative:
		return m.stay(promptConfirmRetry), nil
	case sig.Affirmative:
		return m.book(ctx, c)
	case sig.Negative:
		return outcome{next: StateCollectDate, text: promptDifferentDate}, nil
	default:
		return m.stay(promptConfirmRetry), nil
	}
}

func (m *Machine) book(ctx context.Context, c *Context) (outcome, error) {
	if c.Doctor == nil || c.Date == nil || c.Time == "" {
		return outcome{}, ErrIncompleteContext
	}
	id, err := m.store.GenerateID(ctx)
	if err != nil {
		return outcome{}, storeErr("generate appointment id", err)
	}
	appt := models.Appointment{
		ID:          id,
		PatientName: c.PatientName,
		Doctor:      c.Doctor.Name,
		Department:  c.Department,
		Date:        c.Date.String(),
		Time:        c.Time,
		Status:      models.StatusConfirmed,
	}
	if err := m.store.Save(ctx, appt); err != nil {
		return outcome{}, storeErr("save appointment "+id, err)
	}
	c.AppointmentID = id

	if c.Intent == IntentReschedule && c.Existing != nil {
		prev := c.Existing.ID
		if err := m.store.Update(ctx, prev, store.Update{Status: models.StatusCancelled}); err != nil {
			// Withdraw the new booking so the caller keeps exactly one.
			if rerr := m.store.Update(ctx, id, store.Update{Status: models.StatusCancelled}); rerr != nil {
				err = errors.Join(err, fmt.Errorf("withdraw %s: %w", id, rerr))
			}
			return outcome{}, storeErr("cancel replaced appointment "+prev, err)
		}
		return outcome{
			next:       StateClose,
			text:       fmt.Sprintf(promptRescheduled, id, prev) + " " + m.say.closing(),
			booked:     &appt,
			previousID: prev,
		}, nil
	}
	return outcome{next: StateClose, text: fmt.Sprintf(promptBooked, id), booked: &appt}, nil
}

// findActive looks up the caller's appointment. A cancelled record counts as
// not found.
func (m *Machine) findActive(ctx context.Context, name string) (models.Appointment, bool, error) {
	appt, err := m.store.FindByPatientName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return models.Appointment{}, false, nil
	}
	if err != nil {
		return models.Appointment{}, false, storeErr("find appointment for "+name, err)
	}
	return appt, appt.IsActive(), nil
}

func (m *Machine) confirmReschedule(ctx context.Context, u extract.Utterance, c *Context) (outcome, error) {
	sig := extract.ClassifyIntent(u.Text)
	switch {
	case sig.Affirmative:
		appt, ok, err := m.findActive(ctx, c.PatientName)
		if err != nil {
			return outcome{}, err
		}
		if !ok {
			return outcome{next: StateClose, text: m.say.notFound(c.PatientName)}, nil
		}
		c.Existing = &appt
		return outcome{next: StateCollectDepartment, text: existingFound(appt)}, nil
	case sig.Negative:
		return outcome{next: StateClose, text: promptUnchanged + " " + m.say.closing()}, nil
	default:
		return m.stay(promptRescheduleRetry), nil
	}
}

func (m *Machine) confirmCancel(ctx context.Context, u extract.Utterance, c *Context) (outcome, error) {
	sig := extract.ClassifyIntent(u.Text)
	switch {
	case sig.Affirmative:
		appt, ok, err := m.findActive(ctx, c.PatientName)
		if err != nil {
			return outcome{}, err
		}
		if !ok {
			return outcome{next: StateClose, text: m.say.notFound(c.PatientName)}, nil
		}
		if err := m.store.Update(ctx, appt.ID, store.Update{Status: models.StatusCancelled}); err != nil {
			return outcome{}, storeErr("cancel appointment "+appt.ID, err)
		}
		appt.Status = models.StatusCancelled
		c.Existing = &appt
		return outcome{next: StateClose, text: cancelled(appt) + " " + m.say.closing(), cancelled: &appt}, nil
	case sig.Negative:
		return outcome{next: StateClose, text: promptUnchanged + " " + m.say.closing()}, nil
	default:
		return m.stay(promptCancelRetry), nil
	}
}

// answerFee resolves a doctor from the utterance, then from context, and
// reads back the fee. State and context are not touched.
func (m *Machine) answerFee(ctx context.Context, u extract.Utterance) (Reply, error) {
	candidates := m.ctx.Doctors
	if len(candidates) == 0 {
		all, err := m.dir.AllDoctors(ctx)
		if err != nil {
			return Reply{}, directoryErr("list all doctors", err)
		}
		candidates = all
	}
	reply := Reply{From: m.state, State: m.state, FeeQuery: true}
	d, ok := extract.Doctor(u.Text, candidates)
	if !ok && m.ctx.Doctor != nil {
		d, ok = *m.ctx.Doctor, true
	}
	if !ok {
		reply.Text = promptDoctorNotFound
		return reply, nil
	}
	reply.Text = m.say.fee(d)
	return reply, nil
}
