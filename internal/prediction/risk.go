package prediction

import (
	"context"
	"fmt"
	"sort"

	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
)

// RiskLevel is the qualitative reliability forecast.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Faible"
	RiskModerate RiskLevel = "Modéré"
	RiskHigh     RiskLevel = "Élevé"
)

// RiskProfile is the derived 30-day risk view for one employee.
type RiskProfile struct {
	Matricule        string            `json:"matricule"`
	Domain           attendance.Domain `json:"domain"`
	TotalDays        int               `json:"total_days"`
	PresenceRate     float64           `json:"presence_rate"`
	AbsenceRate      float64           `json:"absence_rate"`
	LateRate         float64           `json:"late_rate"`
	RiskLevel        RiskLevel         `json:"risk_level"`
	RiskFactors      []string          `json:"risk_factors"`
	RecentIssueCount int               `json:"recent_issue_count"`
}

// Risk computes the rule-based risk profile over the trailing 30 days.
func (e *Engine) Risk(ctx context.Context, matricule string) (RiskProfile, error) {
	matricule = attendance.NormalizeMatricule(matricule)
	from, to := analytics.TrailingWindow(e.clock.Now(), historyDays)
	records, err := e.source.FetchRange(ctx, from, to)
	if err != nil {
		return RiskProfile{}, ErrInsufficientHistory
	}
	history := analytics.FilterMatricule(records, matricule)
	if len(history) == 0 {
		return RiskProfile{}, ErrUnknownEmployee
	}
	return riskFromHistory(matricule, history), nil
}

// riskFromHistory applies the cumulative rule set. Rules append factors
// independently; later rules may escalate but never lower the level.
func riskFromHistory(matricule string, history []attendance.Record) RiskProfile {
	sort.SliceStable(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) })

	total := len(history)
	present := analytics.CountStatus(history, attendance.StatusPresent)
	absent := analytics.CountStatus(history, attendance.StatusAbsent)
	late := analytics.CountStatus(history, attendance.StatusLate)

	profile := RiskProfile{
		Matricule:    matricule,
		Domain:       attendance.ClassifyDomain(matricule),
		TotalDays:    total,
		PresenceRate: float64(present) / float64(max(total, 1)),
		AbsenceRate:  float64(absent) / float64(max(total, 1)),
		LateRate:     float64(late) / float64(max(total, 1)),
		RiskLevel:    RiskLow,
		RiskFactors:  []string{},
	}

	if profile.AbsenceRate > 0.20 {
		profile.RiskLevel = RiskHigh
		profile.RiskFactors = append(profile.RiskFactors,
			fmt.Sprintf("Taux d'absence élevé (%.1f%%)", profile.AbsenceRate*100))
	} else if profile.AbsenceRate > 0.10 {
		profile.RiskLevel = RiskModerate
		profile.RiskFactors = append(profile.RiskFactors,
			fmt.Sprintf("Taux d'absence modéré (%.1f%%)", profile.AbsenceRate*100))
	}

	if profile.LateRate > 0.15 {
		if profile.RiskLevel == RiskLow {
			profile.RiskLevel = RiskModerate
		}
		profile.RiskFactors = append(profile.RiskFactors,
			fmt.Sprintf("Taux de retard élevé (%.1f%%)", profile.LateRate*100))
	}

	recent := history
	if len(recent) > 7 {
		recent = recent[len(recent)-7:]
	}
	for _, record := range recent {
		if record.Status != attendance.StatusPresent {
			profile.RecentIssueCount++
		}
	}
	if profile.RecentIssueCount > 3 {
		profile.RiskLevel = RiskHigh
		profile.RiskFactors = append(profile.RiskFactors,
			fmt.Sprintf("Problèmes récents (%d sur 7 jours)", profile.RecentIssueCount))
	}

	return profile
}
