package analytics

import (
	"time"

	attendance "pointage-cloud/internal/attendance/domain"
)

// Statistics is the aggregate view over a record set.
type Statistics struct {
	EmployeeCount   int                                          `json:"employee_count"`
	RecordCount     int                                          `json:"record_count"`
	PresentCount    int                                          `json:"present_count"`
	AbsentCount     int                                          `json:"absent_count"`
	LateCount       int                                          `json:"late_count"`
	DomainBreakdown map[attendance.Domain]map[attendance.Status]int `json:"domain_breakdown"`
	DayOverDay      *DayOverDay                                  `json:"day_over_day,omitempty"`
}

// DayOverDay compares today's counts against yesterday's. It is only present
// when the record set actually contains yesterday's records; a missing field
// means "not computable", not zero.
type DayOverDay struct {
	YesterdayPresenceRate float64 `json:"yesterday_presence_rate"`
	PresentDelta          int     `json:"present_delta"`
	LateDelta             int     `json:"late_delta"`
}

// PresenceRate returns the share of present records in [0, 1]. A zero
// denominator yields 0 by policy.
func PresenceRate(records []attendance.Record) float64 {
	present := 0
	for _, record := range records {
		if record.Status == attendance.StatusPresent {
			present++
		}
	}
	return float64(present) / float64(max(len(records), 1))
}

// Aggregate computes statistics over the record set. The empty set yields
// all-zero statistics. now anchors the day-over-day comparison.
func Aggregate(records []attendance.Record, now time.Time) Statistics {
	stats := Statistics{
		DomainBreakdown: make(map[attendance.Domain]map[attendance.Status]int),
	}
	if len(records) == 0 {
		return stats
	}

	stats.RecordCount = len(records)
	seen := make(map[string]struct{})

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	var yesterdayTotal, yesterdayPresent, yesterdayLate int

	for _, record := range records {
		seen[record.Matricule] = struct{}{}
		switch record.Status {
		case attendance.StatusPresent:
			stats.PresentCount++
		case attendance.StatusAbsent:
			stats.AbsentCount++
		case attendance.StatusLate:
			stats.LateCount++
		}

		domain := attendance.ClassifyDomain(record.Matricule)
		byStatus := stats.DomainBreakdown[domain]
		if byStatus == nil {
			byStatus = make(map[attendance.Status]int)
			stats.DomainBreakdown[domain] = byStatus
		}
		byStatus[record.Status]++

		if record.SameDay(yesterday) {
			yesterdayTotal++
			switch record.Status {
			case attendance.StatusPresent:
				yesterdayPresent++
			case attendance.StatusLate:
				yesterdayLate++
			}
		}
	}
	stats.EmployeeCount = len(seen)

	// The comparison needs records on at least two distinct dates, one of
	// them yesterday. A set that is all-yesterday has nothing to compare to.
	if yesterdayTotal > 0 && yesterdayTotal < stats.RecordCount {
		stats.DayOverDay = &DayOverDay{
			YesterdayPresenceRate: float64(yesterdayPresent) / float64(max(yesterdayTotal, 1)),
			PresentDelta:          stats.PresentCount - yesterdayPresent,
			LateDelta:             stats.LateCount - yesterdayLate,
		}
	}

	return stats
}

// DomainCounts summarizes one domain's slice of a record set.
type DomainCounts struct {
	Total        int     `json:"total"`
	Present      int     `json:"present"`
	Absent       int     `json:"absent"`
	Late         int     `json:"late"`
	PresenceRate float64 `json:"presence_rate"`
}

// DomainSummary computes per-domain counts for the three named domains.
// Domains with no records appear with zero counts.
func DomainSummary(records []attendance.Record) map[attendance.Domain]DomainCounts {
	summary := make(map[attendance.Domain]DomainCounts, len(attendance.Domains()))
	for _, domain := range attendance.Domains() {
		summary[domain] = DomainCounts{}
	}
	for _, record := range records {
		domain := attendance.ClassifyDomain(record.Matricule)
		counts, ok := summary[domain]
		if !ok {
			continue
		}
		counts.Total++
		switch record.Status {
		case attendance.StatusPresent:
			counts.Present++
		case attendance.StatusAbsent:
			counts.Absent++
		case attendance.StatusLate:
			counts.Late++
		}
		summary[domain] = counts
	}
	for domain, counts := range summary {
		counts.PresenceRate = float64(counts.Present) / float64(max(counts.Total, 1))
		summary[domain] = counts
	}
	return summary
}

// FilterDomain returns the records belonging to the domain.
func FilterDomain(records []attendance.Record, domain attendance.Domain) []attendance.Record {
	out := make([]attendance.Record, 0, len(records))
	for _, record := range records {
		if attendance.ClassifyDomain(record.Matricule) == domain {
			out = append(out, record)
		}
	}
	return out
}

// FilterMatricule returns the records for one employee.
func FilterMatricule(records []attendance.Record, matricule string) []attendance.Record {
	matricule = attendance.NormalizeMatricule(matricule)
	out := make([]attendance.Record, 0, len(records))
	for _, record := range records {
		if record.Matricule == matricule {
			out = append(out, record)
		}
	}
	return out
}

// CountStatus returns the number of records with the given status.
func CountStatus(records []attendance.Record, status attendance.Status) int {
	count := 0
	for _, record := range records {
		if record.Status == status {
			count++
		}
	}
	return count
}
