package chatbot

import (
	"strings"

	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
)

// Metric is the statistic family a question asks about.
type Metric string

const (
	MetricLateness Metric = "retard"
	MetricAbsence  Metric = "absence"
	MetricPresence Metric = "presence"
	MetricGeneral  Metric = "general"
)

// slots holds the four independently extracted question parameters.
type slots struct {
	Domain    attendance.Domain // empty when no domain keyword matched
	Period    analytics.Period
	Metric    Metric
	Matricule string // empty when no matricule matched
}

// extractSlots pulls domain, period, metric and matricule out of the
// question. question must already be lower-cased; raw is the original form
// used for matricule matching.
func extractSlots(question, raw string) slots {
	return slots{
		Domain:    extractDomain(question),
		Period:    extractPeriod(question),
		Metric:    extractMetric(question),
		Matricule: extractMatricule(raw),
	}
}

func extractDomain(question string) attendance.Domain {
	switch {
	case strings.Contains(question, "chantre"):
		return attendance.DomainChantre
	case strings.Contains(question, "protocole"):
		return attendance.DomainProtocole
	case strings.Contains(question, "régis"), strings.Contains(question, "regis"):
		return attendance.DomainRegis
	default:
		return ""
	}
}

func extractPeriod(question string) analytics.Period {
	switch {
	case reToday.MatchString(question):
		return analytics.PeriodToday
	case strings.Contains(question, "hier"):
		return analytics.PeriodYesterday
	case reWeek.MatchString(question):
		return analytics.PeriodWeek
	case reMonth.MatchString(question):
		return analytics.PeriodMonth
	default:
		return analytics.PeriodToday
	}
}

// extractMetric resolves the metric family, first match wins in priority
// order lateness, absence, presence.
func extractMetric(question string) Metric {
	switch {
	case reLate.MatchString(question):
		return MetricLateness
	case reAbsence.MatchString(question):
		return MetricAbsence
	case rePresence.MatchString(question):
		return MetricPresence
	default:
		return MetricGeneral
	}
}

func extractMatricule(raw string) string {
	return reMatricule.FindString(strings.ToUpper(raw))
}
