package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var dayMonthPattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b`)

var monthsByAbbrev = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// Date resolves "today", "tomorrow" or "<day> <month>" relative to now.
// A day that does not exist in the month ("31 feb") is no match.
func Date(text string, now time.Time) (civil.Date, bool) {
	t := normalize(text)
	today := civil.DateOf(now)
	switch {
	case strings.Contains(t, "tomorrow"):
		return today.AddDays(1), true
	case strings.Contains(t, "today"):
		return today, true
	}

	m := dayMonthPattern.FindStringSubmatch(t)
	if m == nil {
		return civil.Date{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return civil.Date{}, false
	}
	d := civil.Date{Year: now.Year(), Month: monthsByAbbrev[m[2]], Day: day}
	if !d.IsValid() {
		return civil.Date{}, false
	}
	return d, true
}
