package alerts

import (
	"fmt"
	"sort"
	"time"

	attendance "pointage-cloud/internal/attendance/domain"
)

// Thresholds are strict per the business rule: an absence alert fires on
// strictly more than 2 absences, a lateness alert on 3 or more lates.
const (
	absenceThreshold  = 2
	latenessThreshold = 3
)

// Scan flags employees crossing the absence or lateness thresholds within
// the supplied record set. The caller is responsible for bounding the set to
// the trailing windowDays; windowDays only labels the result. The returned
// list holds every High severity alert first, each group sorted by count
// descending.
func Scan(records []attendance.Record, windowDays int) []Alert {
	if len(records) == 0 {
		return []Alert{}
	}

	absences := scanKind(records, attendance.StatusAbsent, KindExcessiveAbsence, windowDays,
		func(count int) bool { return count > absenceThreshold })
	lates := scanKind(records, attendance.StatusLate, KindFrequentLateness, windowDays,
		func(count int) bool { return count >= latenessThreshold })

	all := append(absences, lates...)
	sort.SliceStable(all, func(i, j int) bool {
		if (all[i].Severity == SeverityHigh) != (all[j].Severity == SeverityHigh) {
			return all[i].Severity == SeverityHigh
		}
		return all[i].Count > all[j].Count
	})
	return all
}

func scanKind(records []attendance.Record, status attendance.Status, kind Kind, windowDays int, fires func(int) bool) []Alert {
	counts := make(map[string]int)
	occurrences := make(map[string][]time.Time)
	domains := make(map[string]attendance.Domain)
	order := make([]string, 0)

	for _, record := range records {
		if _, seen := domains[record.Matricule]; !seen {
			domains[record.Matricule] = attendance.ClassifyDomain(record.Matricule)
			order = append(order, record.Matricule)
		}
		if record.Status != status {
			continue
		}
		counts[record.Matricule]++
		occurrences[record.Matricule] = append(occurrences[record.Matricule], record.Day())
	}

	alerts := make([]Alert, 0)
	for _, matricule := range order {
		count := counts[matricule]
		if !fires(count) {
			continue
		}
		alert := Alert{
			Matricule:      matricule,
			Domain:         domains[matricule],
			Kind:           kind,
			Count:          count,
			WindowDays:     windowDays,
			LastOccurrence: lastAmongRecent(occurrences[matricule], 3),
			Severity:       severityFor(count),
		}
		alert.Message = renderMessage(alert)
		alerts = append(alerts, alert)
	}
	return alerts
}

// lastAmongRecent returns the most recent date among the last n occurrences.
func lastAmongRecent(dates []time.Time, n int) time.Time {
	if len(dates) == 0 {
		return time.Time{}
	}
	if len(dates) > n {
		dates = dates[len(dates)-n:]
	}
	last := dates[0]
	for _, date := range dates[1:] {
		if date.After(last) {
			last = date
		}
	}
	return last
}

func renderMessage(alert Alert) string {
	switch alert.Kind {
	case KindExcessiveAbsence:
		return fmt.Sprintf("ALERTE ABSENCE: L'employé %s (%s) a %d absences dans %s.",
			alert.Matricule, alert.Domain, alert.Count, alert.Window())
	default:
		return fmt.Sprintf("ALERTE RETARD: L'employé %s (%s) a %d retards dans %s.",
			alert.Matricule, alert.Domain, alert.Count, alert.Window())
	}
}
