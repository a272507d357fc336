// Package extract turns raw caller utterances into intent signals and typed
// entities. Every function is total: a failed match is reported through the
// boolean result or the zero value, never an error.
package extract

import "strings"

// Category names one keyword set of the matching policy.
type Category string

const (
	CategoryBooking     Category = "booking"
	CategoryReschedule  Category = "reschedule"
	CategoryCancel      Category = "cancel"
	CategoryAffirmative Category = "affirmative"
	CategoryNegative    Category = "negative"
	CategoryFee         Category = "fee"
	CategorySeniority   Category = "seniority"
)

// Keywords is the matching policy. A category matches when the normalized
// utterance contains any of its keywords as a substring. Matching is not
// token bounded, so a keyword also fires inside a longer word: "book"
// contains "ok" (affirmative) and "know" contains "no" (negative).
var Keywords = map[Category][]string{
	CategoryBooking:     {"book", "appointment", "consult"},
	CategoryReschedule:  {"reschedule", "change"},
	CategoryCancel:      {"cancel", "delete"},
	CategoryAffirmative: {"yes", "yeah", "yep", "sure", "ok", "okay", "correct", "confirm"},
	CategoryNegative:    {"no", "not interested", "cancel", "don't"},
	CategoryFee:         {"fee", "fees", "consultation"},
	CategorySeniority:   {"senior", "experienced", "most experienced", "best"},
}

// Signals holds the independent intent flags of one utterance.
type Signals struct {
	Booking     bool
	Reschedule  bool
	Cancel      bool
	Affirmative bool
	Negative    bool
}

// Any reports whether a booking, reschedule or cancel intent was found.
func (s Signals) Any() bool {
	return s.Booking || s.Reschedule || s.Cancel
}

// Utterance is one caller input with its matching form.
type Utterance struct {
	Raw  string
	Text string // lower-cased and trimmed
}

// Normalize builds the matching form of raw.
func Normalize(raw string) Utterance {
	return Utterance{Raw: raw, Text: normalize(raw)}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matches reports whether text hits any keyword of category.
func Matches(category Category, text string) bool {
	return containsAny(normalize(text), Keywords[category])
}

// ClassifyIntent sets each flag whose keyword set matches text.
func ClassifyIntent(text string) Signals {
	t := normalize(text)
	return Signals{
		Booking:     containsAny(t, Keywords[CategoryBooking]),
		Reschedule:  containsAny(t, Keywords[CategoryReschedule]),
		Cancel:      containsAny(t, Keywords[CategoryCancel]),
		Affirmative: containsAny(t, Keywords[CategoryAffirmative]),
		Negative:    containsAny(t, Keywords[CategoryNegative]),
	}
}

// FeeQuery reports whether the caller is asking about consultation fees.
func FeeQuery(text string) bool {
	return Matches(CategoryFee, text)
}

// Seniority reports whether the caller asked for the most experienced doctor.
func Seniority(text string) bool {
	return Matches(CategorySeniority, text)
}

func containsAny(text string, words []string) bool {
	if text == "" {
		return false
	}
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
