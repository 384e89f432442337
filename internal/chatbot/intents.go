package chatbot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
	"pointage-cloud/internal/prediction"
)

const (
	trendWindowDays  = 30
	rankingSize      = 5
	forecastDays     = 7
	trendThresholdPt = 5.0
)

// Forecaster exposes the prediction engine to the interpreter.
type Forecaster interface {
	Train(ctx context.Context) (*prediction.Model, error)
}

func (i *Interpreter) answerAlerts(ctx context.Context, _, _ string) string {
	if i.alerts == nil {
		return "Le module d'alertes n'est pas disponible."
	}
	alertList := i.alerts.CheckAlerts(ctx)
	if len(alertList) == 0 {
		return "Aucune alerte détectée."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Il y a %d alerte(s) en cours:", len(alertList))
	shown := alertList
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for _, alert := range shown {
		sb.WriteString("\n- ")
		sb.WriteString(alert.Message)
	}
	if len(alertList) > 3 {
		fmt.Fprintf(&sb, "\n... et %d autre(s).", len(alertList)-3)
	}
	return sb.String()
}

func (i *Interpreter) answerPrediction(ctx context.Context, _, raw string) string {
	if i.forecasts == nil {
		return "Le module de prédiction n'est pas disponible."
	}
	matricule := extractMatricule(raw)
	if matricule == "" {
		return "Précisez un matricule (ex: C123) pour obtenir une prédiction."
	}

	model, err := i.forecasts.Train(ctx)
	if err != nil {
		return fmt.Sprintf("Pas assez de données pour prédire le comportement de %s.", matricule)
	}
	points, err := model.Predict(matricule, forecastDays, i.clock.Now())
	if err != nil || len(points) == 0 {
		if errors.Is(err, prediction.ErrUnknownEmployee) {
			return fmt.Sprintf("Aucune donnée récente pour l'employé %s.", matricule)
		}
		return fmt.Sprintf("Pas assez de données pour prédire le comportement de %s.", matricule)
	}

	first := points[0]
	answer := fmt.Sprintf("Prédiction pour %s demain (%s): %s (confiance %.0f%%).",
		matricule, first.Date.Format("02/01"), strings.ToLower(first.Status.String()), first.Confidence*100)
	return answer + " Au-delà du premier jour la fiabilité diminue."
}

// answerComparison compares this week so far against the immediately
// preceding 7-day window. Any nonzero difference picks a label; only an
// exact tie is "stable".
func (i *Interpreter) answerComparison(ctx context.Context, _, _ string) string {
	now := i.clock.Now()
	weekFrom, weekTo, err := analytics.PeriodWeek.Resolve(now)
	if err != nil {
		return errorResponse
	}
	prevTo := weekFrom.AddDate(0, 0, -1)
	prevFrom := weekFrom.AddDate(0, 0, -7)

	currentRecords, err := i.source.FetchRange(ctx, weekFrom, weekTo)
	if err != nil {
		return errorResponse
	}
	previousRecords, err := i.source.FetchRange(ctx, prevFrom, prevTo)
	if err != nil {
		return errorResponse
	}
	if len(currentRecords) == 0 && len(previousRecords) == 0 {
		return "Aucune donnée disponible pour comparer les deux semaines."
	}

	currentRate := analytics.PresenceRate(currentRecords) * 100
	previousRate := analytics.PresenceRate(previousRecords) * 100
	diff := currentRate - previousRate

	label := "stable"
	if diff > 0 {
		label = "en amélioration"
	} else if diff < 0 {
		label = "en baisse"
	}
	return fmt.Sprintf("Taux de présence cette semaine: %.1f%% contre %.1f%% la semaine précédente (%+.1f points, %s).",
		currentRate, previousRate, diff, label)
}

// answerTrend compares the first and last weekly presence rates over the
// trailing 30 days. More than +5 points is positive, below -5 negative.
func (i *Interpreter) answerTrend(ctx context.Context, _, _ string) string {
	now := i.clock.Now()
	from, to := analytics.TrailingWindow(now, trendWindowDays)
	records, err := i.source.FetchRange(ctx, from, to)
	if err != nil {
		return errorResponse
	}
	if len(records) == 0 {
		return "Aucune donnée sur les 30 derniers jours pour dégager une tendance."
	}

	rates := weeklyPresenceRates(records, from)
	if len(rates) < 2 {
		return "Pas assez de semaines de données pour dégager une tendance."
	}

	first := rates[0] * 100
	last := rates[len(rates)-1] * 100
	diff := last - first

	label := "stable"
	if diff > trendThresholdPt {
		label = "positive"
	} else if diff < -trendThresholdPt {
		label = "négative"
	}
	return fmt.Sprintf("Tendance sur 30 jours: %s (de %.1f%% à %.1f%% de présence, %+.1f points).",
		label, first, last, diff)
}

// weeklyPresenceRates buckets records into consecutive 7-day slices from the
// window start and returns the presence rate of each non-empty bucket.
func weeklyPresenceRates(records []attendance.Record, windowStart time.Time) []float64 {
	buckets := make(map[int][]attendance.Record)
	maxBucket := -1
	for _, record := range records {
		bucket := int(record.Day().Sub(windowStart).Hours() / 24 / 7)
		if bucket < 0 {
			continue
		}
		buckets[bucket] = append(buckets[bucket], record)
		if bucket > maxBucket {
			maxBucket = bucket
		}
	}

	rates := make([]float64, 0, maxBucket+1)
	for bucket := 0; bucket <= maxBucket; bucket++ {
		members := buckets[bucket]
		if len(members) == 0 {
			continue
		}
		rates = append(rates, analytics.PresenceRate(members))
	}
	return rates
}

// answerPerformance summarizes 30-day attendance for the matched employee or
// domain, falling back to the global figure.
func (i *Interpreter) answerPerformance(ctx context.Context, question, raw string) string {
	now := i.clock.Now()
	from, to := analytics.TrailingWindow(now, trendWindowDays)
	records, err := i.source.FetchRange(ctx, from, to)
	if err != nil {
		return errorResponse
	}
	if len(records) == 0 {
		return "Aucune donnée sur les 30 derniers jours."
	}

	subject := "Performance globale"
	if matricule := extractMatricule(raw); matricule != "" {
		records = analytics.FilterMatricule(records, matricule)
		if len(records) == 0 {
			return fmt.Sprintf("Aucune donnée récente pour l'employé %s.", matricule)
		}
		subject = fmt.Sprintf("Performance de %s", matricule)
	} else if domain := extractDomain(question); domain != "" {
		records = analytics.FilterDomain(records, domain)
		if len(records) == 0 {
			return fmt.Sprintf("Aucune donnée récente pour le domaine %s.", domain)
		}
		subject = fmt.Sprintf("Performance du domaine %s", domain)
	}

	present := analytics.CountStatus(records, attendance.StatusPresent)
	absent := analytics.CountStatus(records, attendance.StatusAbsent)
	late := analytics.CountStatus(records, attendance.StatusLate)
	rate := analytics.PresenceRate(records) * 100
	return fmt.Sprintf("%s sur 30 jours: taux de présence %.1f%% (%d présences, %d absences, %d retards).",
		subject, rate, present, absent, late)
}

type rankingEntry struct {
	matricule string
	rate      float64
	absences  int
	lates     int
}

// answerRanking ranks employees by 30-day presence rate. "best" questions
// return the top 5 descending, "worst/problem" questions the bottom 5
// ascending.
func (i *Interpreter) answerRanking(ctx context.Context, question, _ string) string {
	now := i.clock.Now()
	from, to := analytics.TrailingWindow(now, trendWindowDays)
	records, err := i.source.FetchRange(ctx, from, to)
	if err != nil {
		return errorResponse
	}
	if len(records) == 0 {
		return "Aucune donnée sur les 30 derniers jours pour établir un classement."
	}

	byEmployee := make(map[string][]attendance.Record)
	order := make([]string, 0)
	for _, record := range records {
		if _, seen := byEmployee[record.Matricule]; !seen {
			order = append(order, record.Matricule)
		}
		byEmployee[record.Matricule] = append(byEmployee[record.Matricule], record)
	}

	entries := make([]rankingEntry, 0, len(order))
	for _, matricule := range order {
		history := byEmployee[matricule]
		entries = append(entries, rankingEntry{
			matricule: matricule,
			rate:      analytics.PresenceRate(history),
			absences:  analytics.CountStatus(history, attendance.StatusAbsent),
			lates:     analytics.CountStatus(history, attendance.StatusLate),
		})
	}

	worst := reWorst.MatchString(question)
	sort.SliceStable(entries, func(a, b int) bool {
		if worst {
			return entries[a].rate < entries[b].rate
		}
		return entries[a].rate > entries[b].rate
	})
	if len(entries) > rankingSize {
		entries = entries[:rankingSize]
	}

	title := "Meilleurs employés sur 30 jours"
	if worst {
		title = "Employés en difficulté sur 30 jours"
	}
	var sb strings.Builder
	sb.WriteString(title + ":")
	for rank, entry := range entries {
		fmt.Fprintf(&sb, "\n%d. %s (%s): %.1f%% de présence, %d absence(s), %d retard(s)",
			rank+1, entry.matricule, attendance.ClassifyDomain(entry.matricule), entry.rate*100, entry.absences, entry.lates)
	}
	return sb.String()
}
