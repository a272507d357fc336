package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?(am|pm)?`)

var clockCleaner = strings.NewReplacer(" ", "", ".", "")

type clock struct {
	hour      int
	minute    int
	hasMinute bool
	period    string // "am", "pm" or empty
}

func parseClock(s string) (clock, bool) {
	m := clockPattern.FindStringSubmatch(clockCleaner.Replace(normalize(s)))
	if m == nil {
		return clock{}, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return clock{}, false
	}
	c := clock{hour: hour, period: m[3]}
	if m[2] != "" {
		c.minute, _ = strconv.Atoi(m[2])
		c.hasMinute = true
	}
	if c.period == "" && c.hour > 12 {
		c.hour -= 12
		c.period = "pm"
	}
	return c, true
}

// TimeSlot picks the offered slot the caller asked for.
//
// With an am/pm marker a slot must share hour and period. Without one the
// first offered slot sharing the hour wins, whichever half of the day it is
// in: "11" against ["11:00 AM", "11:00 PM"] returns "11:00 AM", and the same
// utterance against ["11:00 PM", "11:00 AM"] returns "11:00 PM". Minutes only
// constrain the match when the caller said them.
func TimeSlot(text string, offered []string) (string, bool) {
	want, ok := parseClock(text)
	if !ok {
		return "", false
	}
	for _, slot := range offered {
		got, ok := parseClock(slot)
		if !ok || got.hour != want.hour {
			continue
		}
		if want.hasMinute && got.minute != want.minute {
			continue
		}
		if want.period != "" && got.period != want.period {
			continue
		}
		return slot, true
	}
	return "", false
}
