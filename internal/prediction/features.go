package prediction

import (
	"sort"
	"time"

	attendance "pointage-cloud/internal/attendance/domain"
)

const (
	recentWindow = 7
	streakCap    = 5
)

// FeatureRow is the numeric view of one historical record. Each row is
// causal: it only uses the identifier's records up to and including its own
// date.
type FeatureRow struct {
	Matricule string
	Date      time.Time
	Label     attendance.Status

	DayOfWeek  int
	Month      int
	DayOfMonth int
	ISOWeek    int

	TotalDays    int
	PresenceRate float64
	AbsenceRate  float64
	LateRate     float64

	RecentPresent int
	RecentAbsent  int
	RecentLate    int

	ConsecutiveAbsences int
	ConsecutiveLates    int

	DomainIndex int
}

// featureCount is the length of Vector.
const featureCount = 14

// Vector flattens the row for the classifier. The order is fixed; the model
// stores nothing but positional statistics.
func (r FeatureRow) Vector() [featureCount]float64 {
	return [featureCount]float64{
		float64(r.DayOfWeek),
		float64(r.Month),
		float64(r.DayOfMonth),
		float64(r.ISOWeek),
		float64(r.TotalDays),
		r.PresenceRate,
		r.AbsenceRate,
		r.LateRate,
		float64(r.RecentPresent),
		float64(r.RecentAbsent),
		float64(r.RecentLate),
		float64(r.ConsecutiveAbsences),
		float64(r.ConsecutiveLates),
		float64(r.DomainIndex),
	}
}

// domainIndex encodes the domain as a stable small integer.
func domainIndex(domain attendance.Domain) int {
	for i, d := range attendance.AllDomains() {
		if d == domain {
			return i
		}
	}
	return len(attendance.AllDomains())
}

// BuildFeatures constructs one row per record across all employees, pooled.
// Rows for one employee are built in date order so every cumulative and
// rolling figure only looks backward.
func BuildFeatures(records []attendance.Record) []FeatureRow {
	byEmployee := make(map[string][]attendance.Record)
	order := make([]string, 0)
	for _, record := range records {
		if _, seen := byEmployee[record.Matricule]; !seen {
			order = append(order, record.Matricule)
		}
		byEmployee[record.Matricule] = append(byEmployee[record.Matricule], record)
	}

	rows := make([]FeatureRow, 0, len(records))
	for _, matricule := range order {
		history := byEmployee[matricule]
		sort.SliceStable(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) })
		index := domainIndex(attendance.ClassifyDomain(matricule))

		var total, present, absent, late int
		for i, record := range history {
			total++
			switch record.Status {
			case attendance.StatusPresent:
				present++
			case attendance.StatusAbsent:
				absent++
			case attendance.StatusLate:
				late++
			}

			row := FeatureRow{
				Matricule:           matricule,
				Date:                record.Day(),
				Label:               record.Status,
				TotalDays:           total,
				PresenceRate:        float64(present) / float64(total),
				AbsenceRate:         float64(absent) / float64(total),
				LateRate:            float64(late) / float64(total),
				ConsecutiveAbsences: consecutiveStatus(history[:i+1], attendance.StatusAbsent),
				ConsecutiveLates:    consecutiveStatus(history[:i+1], attendance.StatusLate),
				DomainIndex:         index,
			}
			row.DayOfWeek = int(record.Day().Weekday())
			row.Month = int(record.Date.Month())
			row.DayOfMonth = record.Date.Day()
			_, row.ISOWeek = record.Day().ISOWeek()

			start := i + 1 - recentWindow
			if start < 0 {
				start = 0
			}
			for _, recent := range history[start : i+1] {
				switch recent.Status {
				case attendance.StatusPresent:
					row.RecentPresent++
				case attendance.StatusAbsent:
					row.RecentAbsent++
				case attendance.StatusLate:
					row.RecentLate++
				}
			}

			rows = append(rows, row)
		}
	}
	return rows
}

// consecutiveStatus counts how many of the most recent records carry the
// status, scanning backward and stopping at the first mismatch. Only the
// last streakCap records are considered.
func consecutiveStatus(history []attendance.Record, status attendance.Status) int {
	start := len(history) - streakCap
	if start < 0 {
		start = 0
	}
	recent := history[start:]
	count := 0
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Status != status {
			break
		}
		count++
	}
	return count
}
