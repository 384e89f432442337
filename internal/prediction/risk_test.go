package prediction

import (
	"context"
	"errors"
	"testing"

	attendance "pointage-cloud/internal/attendance/domain"
	"pointage-cloud/internal/attendance/infrastructure/memory"
)

func statuses(present, absent, late int) []attendance.Status {
	out := make([]attendance.Status, 0, present+absent+late)
	for i := 0; i < absent; i++ {
		out = append(out, attendance.StatusAbsent)
	}
	for i := 0; i < late; i++ {
		out = append(out, attendance.StatusLate)
	}
	for i := 0; i < present; i++ {
		out = append(out, attendance.StatusPresent)
	}
	return out
}

func TestRiskLowForReliableEmployee(t *testing.T) {
	profile := riskFromHistory("C001", history("C001", statuses(28, 1, 1)))
	if profile.RiskLevel != RiskLow {
		t.Fatalf("RiskLevel = %q, want Faible", profile.RiskLevel)
	}
	if len(profile.RiskFactors) != 0 {
		t.Fatalf("factors = %v, want none", profile.RiskFactors)
	}
	if profile.TotalDays != 30 {
		t.Fatalf("TotalDays = %d", profile.TotalDays)
	}
}

func TestRiskHighOnAbsenceRate(t *testing.T) {
	// 7 absences over 30 days is 23.3%, above the 20% bound.
	profile := riskFromHistory("C001", history("C001", statuses(23, 7, 0)))
	if profile.RiskLevel != RiskHigh {
		t.Fatalf("RiskLevel = %q, want Élevé", profile.RiskLevel)
	}
	if len(profile.RiskFactors) == 0 {
		t.Fatal("want an absence factor")
	}
}

func TestRiskModerateOnAbsenceRate(t *testing.T) {
	// 4 absences over 30 days is 13.3%, between the 10% and 20% bounds.
	profile := riskFromHistory("C001", history("C001", statuses(26, 4, 0)))
	if profile.RiskLevel != RiskModerate {
		t.Fatalf("RiskLevel = %q, want Modéré", profile.RiskLevel)
	}
}

func TestRiskLatenessEscalatesLow(t *testing.T) {
	// 6 lates over 30 days is 20%, above the 15% bound.
	profile := riskFromHistory("P001", history("P001", statuses(24, 0, 6)))
	if profile.RiskLevel != RiskModerate {
		t.Fatalf("RiskLevel = %q, want Modéré", profile.RiskLevel)
	}
}

func TestRiskRecentIssuesForceHigh(t *testing.T) {
	// Clean month overall, but the last week collapses: 4 of the final 7
	// records are not presences.
	run := statuses(23, 0, 0)
	run = append(run,
		attendance.StatusAbsent,
		attendance.StatusLate,
		attendance.StatusPresent,
		attendance.StatusAbsent,
		attendance.StatusPresent,
		attendance.StatusLate,
		attendance.StatusPresent,
	)
	profile := riskFromHistory("R001", history("R001", run))
	if profile.RecentIssueCount != 4 {
		t.Fatalf("RecentIssueCount = %d, want 4", profile.RecentIssueCount)
	}
	if profile.RiskLevel != RiskHigh {
		t.Fatalf("RiskLevel = %q, want Élevé", profile.RiskLevel)
	}
}

func TestEngineRiskUnknownEmployee(t *testing.T) {
	source := memory.NewSource(history("C001", statuses(10, 0, 0))...)
	engine, err := NewEngine(source, fixedClock{now: baseDay.AddDate(0, 0, 10)})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.Risk(context.Background(), "R999"); !errors.Is(err, ErrUnknownEmployee) {
		t.Fatalf("err = %v, want ErrUnknownEmployee", err)
	}

	profile, err := engine.Risk(context.Background(), "c001")
	if err != nil {
		t.Fatalf("risk: %v", err)
	}
	if profile.Matricule != "C001" {
		t.Fatalf("matricule = %q, want normalized C001", profile.Matricule)
	}
}
