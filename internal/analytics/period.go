package analytics

import (
	"errors"
	"time"
)

// Period names a query window relative to "now".
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodWeek      Period = "week"
	PeriodMonth     Period = "month"
)

// ErrUnknownPeriod signals an unrecognized period name.
var ErrUnknownPeriod = errors.New("analytics: unknown period")

// IsValid reports whether the period is one of the known names.
func (p Period) IsValid() bool {
	switch p {
	case PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth:
		return true
	default:
		return false
	}
}

// Label returns the French display wording used in rendered answers.
func (p Period) Label() string {
	switch p {
	case PeriodYesterday:
		return "hier"
	case PeriodWeek:
		return "cette semaine"
	case PeriodMonth:
		return "ce mois"
	default:
		return "aujourd'hui"
	}
}

// Resolve turns a period into inclusive [from, to] calendar-day bounds.
// Weeks start on Monday, months on the 1st.
func (p Period) Resolve(now time.Time) (time.Time, time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch p {
	case PeriodToday:
		return today, today, nil
	case PeriodYesterday:
		yesterday := today.AddDate(0, 0, -1)
		return yesterday, yesterday, nil
	case PeriodWeek:
		weekday := int(today.Weekday())
		// time.Weekday counts Sunday as 0; shift so Monday starts the week.
		offset := (weekday + 6) % 7
		return today.AddDate(0, 0, -offset), today, nil
	case PeriodMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), today, nil
	default:
		return time.Time{}, time.Time{}, ErrUnknownPeriod
	}
}

// TrailingWindow returns the inclusive [from, to] bounds for the trailing
// windowDays days ending today.
func TrailingWindow(now time.Time, windowDays int) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -windowDays), today
}
