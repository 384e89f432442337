package attendance

import (
	"strings"
	"time"
)

// Status is the attendance outcome recorded for one employee on one day.
type Status string

const (
	StatusPresent Status = "Présent"
	StatusAbsent  Status = "Absent"
	StatusLate    Status = "Retard"
)

// ParseStatus normalizes a stored status label. The store historically holds
// both accented and bare lowercase variants.
func ParseStatus(value string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "présent", "present":
		return StatusPresent, true
	case "absent":
		return StatusAbsent, true
	case "retard", "late":
		return StatusLate, true
	default:
		return "", false
	}
}

// String returns the stored label.
func (s Status) String() string { return string(s) }

// Valid reports whether the status is one of the three known outcomes.
func (s Status) Valid() bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusLate
}

// Record is a single check-in/absence/lateness row. Records are immutable
// once read; the store owns update semantics.
type Record struct {
	Matricule string     `json:"matricule"`
	Date      time.Time  `json:"date"`
	CheckIn   *time.Time `json:"check_in,omitempty"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// Day returns the record date truncated to midnight UTC.
func (r Record) Day() time.Time {
	return time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether the record falls on the given calendar day.
func (r Record) SameDay(day time.Time) bool {
	y1, m1, d1 := r.Date.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
