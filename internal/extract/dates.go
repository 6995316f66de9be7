package extract

import (
	"strings"
	"time"
)

// monthNames maps month spellings (full and three-letter) to months.
var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

// parseMonth resolves a month name (any case, full or abbreviated).
func parseMonth(name string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// ResolveDate turns a possibly year-less date into an absolute calendar date.
//
// With no year given, the current year is assumed; if that lands in the past
// the date advances exactly one year; if it is still in the past the date is
// unresolvable and the candidate should be dropped. With an explicit year the
// date is taken literally. Either way, a date strictly before today is
// rejected: past events never enter the dataset.
func ResolveDate(month time.Month, day, year int, today time.Time) (time.Time, bool) {
	today = truncate(today)

	if year == 0 {
		d, ok := calendarDate(today.Year(), month, day)
		if !ok {
			return time.Time{}, false
		}
		if d.Before(today) {
			d = d.AddDate(1, 0, 0)
			if d.Before(today) || d.Day() != day {
				// Still past, or the day doesn't exist next year (Feb 29).
				return time.Time{}, false
			}
		}
		return d, true
	}

	d, ok := calendarDate(year, month, day)
	if !ok || d.Before(today) {
		return time.Time{}, false
	}
	return d, true
}

// calendarDate builds a date and rejects impossible days (time.Date would
// silently normalize Feb 30 into March).
func calendarDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// parseISODate parses schema.org startDate values: full RFC3339 timestamps
// or bare YYYY-MM-DD dates, with or without timezone.
func parseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) >= 10 {
		if d, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
