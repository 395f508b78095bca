// Package experience computes durations and relevance-weighted years from a candidate's work history.
package experience

import (
	"strings"
	"time"
)

// daysPerYear is the mean Gregorian year length used for all year conversions
const daysPerYear = 365.25

// instantLayouts are tried in order; the first successful parse wins
var instantLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006-1",
	"Jan 2006",
	"January 2006",
	"01/2006",
	"1/2006",
	"2006",
}

// presentSentinels resolve to the current instant
var presentSentinels = map[string]bool{
	"present": true,
	"current": true,
	"now":     true,
	"ongoing": true,
}

// ParseInstant parses a flexible date string. Supported forms are YYYY-MM, "Mon YYYY",
// "Month YYYY", MM/YYYY, YYYY (and YYYY-MM-DD), plus the sentinels present, current,
// now and ongoing which map to now. It returns false for anything else.
func ParseInstant(value string, now time.Time) (time.Time, bool) {
	s := strings.Join(strings.Fields(value), " ")
	if s == "" {
		return time.Time{}, false
	}
	if presentSentinels[strings.ToLower(s)] {
		return now, true
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DurationYears returns the whole days between start and end divided by 365.25.
// A zero endpoint yields 0, and the result is never negative.
func DurationYears(start, end time.Time) float64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	days := int(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return 0
	}
	return float64(days) / daysPerYear
}
