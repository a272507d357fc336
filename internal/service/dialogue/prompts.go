package dialogue

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"hospital-voice-agent/internal/models"
)

// Fixed prompts. Those that need the hospital name or a slot value are
// built by the prompter below.
const (
	promptMenu            = "How may I help you today? I can book, reschedule or cancel an appointment."
	promptMenuRetry       = "Sorry, I didn't catch that. Would you like to book, reschedule or cancel an appointment?"
	promptAskName         = "May I have the patient's full name, please?"
	promptNameRetry       = "Please tell me the patient's full name."
	promptAskDepartment   = "Which department would you like to consult?"
	promptDepartmentRetry = "Please tell me the department name, for example cardiology or dermatology."
	promptAskDate         = "Do you have a specific date you would like to visit?"
	promptDateRetry       = "Please tell me the date you would like to visit, for example tomorrow or 25 October."
	promptDatePassed      = "That date has already passed. Please choose an upcoming date."
	promptConfirmRetry    = "Shall I confirm this appointment? Please say yes or no."
	promptDifferentDate   = "No problem. Which other date would you like to visit?"
	promptRescheduleRetry = "Would you like to go ahead and reschedule? Please say yes or no."
	promptCancelRetry     = "Should I cancel the appointment? Please say yes or no."
	promptUnchanged       = "Alright, your appointment remains unchanged."
	promptDoctorNotFound  = "I couldn't find that doctor in our records."
	promptBooked          = "Your appointment is confirmed. Your appointment ID is %s. We look forward to seeing you."
	promptRescheduled     = "Your appointment has been rescheduled. Your new appointment ID is %s, and appointment %s has been cancelled."
)

type prompter struct {
	opts Options
}

func (p prompter) greeting() string {
	return fmt.Sprintf("Hello, this is the %s appointment desk. %s", p.opts.HospitalName, promptMenu)
}

func (p prompter) closing() string {
	return fmt.Sprintf("Thank you for calling %s. Have a pleasant day.", p.opts.HospitalName)
}

func (p prompter) repromptLimit() string {
	return "I'm having trouble understanding. Please contact our front desk and they will be glad to help. " + p.closing()
}

func (p prompter) notFound(name string) string {
	return fmt.Sprintf("I'm sorry, I couldn't find an active appointment under the name %s. "+
		"Please contact our front desk for help. %s", name, p.closing())
}

func (p prompter) fee(d models.Doctor) string {
	return fmt.Sprintf("The consultation fee for %s is %d %s.", d.Name, d.Fee, p.opts.Currency)
}

func confirmIntent(intent Intent, name string) string {
	if intent == IntentReschedule {
		return fmt.Sprintf("Thank you, %s. You would like to reschedule your existing appointment. Shall I go ahead?", name)
	}
	return fmt.Sprintf("Thank you, %s. Are you sure you want to cancel your appointment?", name)
}

func askDepartment(name string) string {
	return fmt.Sprintf("Thank you, %s. %s", name, promptAskDepartment)
}

func listDoctors(dept models.Department, doctors []models.Doctor) string {
	return fmt.Sprintf("The available doctors in %s are %s. Do you have a preferred doctor?", dept, doctorNames(doctors))
}

func noDoctors(dept models.Department) string {
	return fmt.Sprintf("I'm sorry, there are no doctors available in %s right now. Please choose another department.", dept)
}

func doctorChosen(d models.Doctor) string {
	return fmt.Sprintf("%s is available. %s", d.Name, promptAskDate)
}

func mostExperienced(d models.Doctor, confirm bool) string {
	intro := fmt.Sprintf("%s has %d years of experience and is the most experienced doctor in %s.", d.Name, d.Experience, d.Department)
	if confirm {
		return fmt.Sprintf("%s Would you like to book an appointment with %s?", intro, d.Name)
	}
	return intro + " " + promptAskDate
}

func recommendDefault(d models.Doctor) string {
	return fmt.Sprintf("I would recommend %s, our most experienced doctor in %s. %s", d.Name, d.Department, promptAskDate)
}

func recommendationAccepted(d models.Doctor) string {
	return fmt.Sprintf("Great. %s", doctorChosen(d))
}

func chooseAnother(doctors []models.Doctor) string {
	return fmt.Sprintf("Alright. Would you like to choose another doctor? The available doctors are %s.", doctorNames(doctors))
}

func unavailable(d models.Doctor, date civil.Date, doctors []models.Doctor) string {
	return fmt.Sprintf("I'm sorry, %s has no available slots on %s. Would you like to choose another doctor? The available doctors are %s.",
		d.Name, spokenDate(date), doctorNames(doctors))
}

func offerSlots(date civil.Date, slots []string) string {
	return fmt.Sprintf("Available slots on %s are %s. Which one works for you?", spokenDate(date), strings.Join(slots, ", "))
}

func slotRetry(slots []string) string {
	return "Please choose one of the available slots: " + strings.Join(slots, ", ") + "."
}

func summary(c Context) string {
	return fmt.Sprintf("To confirm, an appointment for %s with %s in %s on %s at %s. Shall I book it?",
		c.PatientName, c.Doctor.Name, c.Department, spokenDate(*c.Date), c.Time)
}

func existingFound(a models.Appointment) string {
	return fmt.Sprintf("I found your appointment with %s on %s at %s. %s",
		a.Doctor, spokenISODate(a.Date), a.Time, "Which department would you like to book the new appointment in?")
}

func cancelled(a models.Appointment) string {
	return fmt.Sprintf("Your appointment %s with %s on %s at %s has been cancelled.",
		a.ID, a.Doctor, spokenISODate(a.Date), a.Time)
}

func doctorNames(doctors []models.Doctor) string {
	names := make([]string, len(doctors))
	for i, d := range doctors {
		names[i] = d.Name
	}
	return strings.Join(names, ", ")
}

func spokenDate(d civil.Date) string {
	return d.In(time.UTC).Format("Monday, 2 January 2006")
}

func spokenISODate(iso string) string {
	d, err := civil.ParseDate(iso)
	if err != nil {
		return iso
	}
	return spokenDate(d)
}
