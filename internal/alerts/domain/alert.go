package alerts

import (
	"fmt"
	"time"

	attendance "pointage-cloud/internal/attendance/domain"
)

// Kind discriminates the two alert families.
type Kind string

const (
	KindExcessiveAbsence Kind = "absence"
	KindFrequentLateness Kind = "retard"
)

// Severity is the alert urgency tier.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert is a derived, ephemeral finding for one employee over a trailing
// window. Alerts are recomputed on every scan and never persisted.
type Alert struct {
	Matricule      string            `json:"matricule"`
	Domain         attendance.Domain `json:"domain"`
	Kind           Kind              `json:"kind"`
	Count          int               `json:"count"`
	WindowDays     int               `json:"window_days"`
	LastOccurrence time.Time         `json:"last_occurrence"`
	Severity       Severity          `json:"severity"`
	Message        string            `json:"message"`
}

// Window returns the French window description used in rendered messages.
func (a Alert) Window() string {
	return fmt.Sprintf("les %d derniers jours", a.WindowDays)
}

// severityFor assigns the tier from an occurrence count.
func severityFor(count int) Severity {
	if count > 5 {
		return SeverityHigh
	}
	return SeverityMedium
}
