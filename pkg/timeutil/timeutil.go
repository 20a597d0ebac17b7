// Package timeutil holds the fixed date conventions used by reports and filters.
// All report dates are rendered in UTC with en-US month abbreviations.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// ReportLocation is the single timezone used for every rendered date.
var ReportLocation = time.UTC

// UpcomingWindow is the look-ahead used for "upcoming deadline" counts.
const UpcomingWindow = 7 * 24 * time.Hour

const (
	shortDateLayout = "Jan 2, 2006"
	dayLabelLayout  = "Jan 2"
	isoDateLayout   = "2006-01-02"
)

// ShortDate formats t as "Jan 5, 2024".
func ShortDate(t time.Time) string {
	return t.In(ReportLocation).Format(shortDateLayout)
}

// DayLabel formats t as "Jan 5", used for chart categories.
func DayLabel(t time.Time) string {
	return t.In(ReportLocation).Format(dayLabelLayout)
}

// ISODate formats t as "2024-01-05".
func ISODate(t time.Time) string {
	return t.In(ReportLocation).Format(isoDateLayout)
}

// StartOfDay returns midnight of t's day in the report location.
func StartOfDay(t time.Time) time.Time {
	t = t.In(ReportLocation)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, ReportLocation)
}

// InWindow reports whether from <= t <= from+window. Both ends are inclusive.
func InWindow(t, from time.Time, window time.Duration) bool {
	return !t.Before(from) && !t.After(from.Add(window))
}

// ParseDateBound parses an optional filter bound. Empty input yields nil.
// Accepts "2006-01-02" (midnight UTC) or RFC 3339 timestamps.
func ParseDateBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(isoDateLayout, s, ReportLocation); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return &t, nil
}
