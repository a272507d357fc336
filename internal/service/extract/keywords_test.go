package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Signals
	}{
		{name: "booking", text: "I want to book an appointment", want: Signals{Booking: true, Affirmative: true}},
		{name: "reschedule with appointment", text: "please reschedule my appointment", want: Signals{Booking: true, Reschedule: true}},
		{name: "cancel sets negative too", text: "Cancel it", want: Signals{Cancel: true, Negative: true}},
		{name: "affirmative", text: "  YES please ", want: Signals{Affirmative: true}},
		{name: "negative", text: "no thanks", want: Signals{Negative: true}},
		{name: "nothing recognizable", text: "what is the weather like", want: Signals{}},
		{name: "empty", text: "", want: Signals{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIntent(tt.text))
		})
	}
}

func TestClassifyIntent_NoKeywordMeansNoFlags(t *testing.T) {
	for _, text := range []string{"hmm", "the sky is blue", "42", "   "} {
		s := ClassifyIntent(text)
		assert.False(t, s.Any(), text)
		assert.False(t, s.Affirmative, text)
		assert.False(t, s.Negative, text)
	}
}

// Substring matching fires inside unrelated words; these cases pin the
// documented behavior.
func TestClassifyIntent_SubstringFalsePositives(t *testing.T) {
	assert.True(t, ClassifyIntent("facebook").Affirmative, `"facebook" contains "ok"`)
	assert.True(t, ClassifyIntent("I know").Negative, `"know" contains "no"`)
	assert.True(t, ClassifyIntent("exchange rate").Reschedule, `"exchange" contains "change"`)
}

func TestClassifyIntent_OrderIndependent(t *testing.T) {
	a := ClassifyIntent("yes book it")
	b := ClassifyIntent("book it yes")
	assert.Equal(t, a, b)
}

func TestFeeQueryAndSeniority(t *testing.T) {
	assert.True(t, FeeQuery("what are the fees"))
	assert.True(t, FeeQuery("Consultation charges?"))
	assert.False(t, FeeQuery("cardiology"))

	assert.True(t, Seniority("the most experienced one"))
	assert.True(t, Seniority("your best doctor"))
	assert.False(t, Seniority("anyone is fine"))
}

func TestNormalize(t *testing.T) {
	u := Normalize("  Book An Appointment  ")
	assert.Equal(t, "  Book An Appointment  ", u.Raw)
	assert.Equal(t, "book an appointment", u.Text)
}
