package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	alerts "pointage-cloud/internal/alerts/domain"
	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
)

const (
	greetingResponse = "Bonjour! Je suis votre assistant de statistiques de pointage. Comment puis-je vous aider?"
	helpResponse     = "Je peux vous renseigner sur: les présences, absences et retards par domaine ou par employé, " +
		"les alertes en cours, les prédictions de comportement, les comparaisons entre semaines, " +
		"les tendances sur 30 jours et le classement des employés. " +
		"Exemple: \"Combien de retards chez les chantres aujourd'hui?\""
	errorResponse = "Désolé, je n'arrive pas à récupérer les données pour le moment. Veuillez réessayer."
)

// AlertScanner exposes the alert engine to the interpreter.
type AlertScanner interface {
	CheckAlerts(ctx context.Context) []alerts.Alert
}

// Interpreter answers free-text questions about attendance data. Answer
// always returns a rendered string, never an error.
type Interpreter struct {
	source    attendance.Source
	clock     analytics.Clock
	alerts    AlertScanner
	forecasts Forecaster
	logger    *log.Logger
	intents   []intent
}

// intent pairs a detection predicate with its handler. Intents are evaluated
// in declaration order; the first match consumes the question.
type intent struct {
	name    string
	matches func(question string) bool
	handle  func(ctx context.Context, question, raw string) string
}

// NewInterpreter constructs a question interpreter.
func NewInterpreter(source attendance.Source, clock analytics.Clock, scanner AlertScanner, forecaster Forecaster, logger *log.Logger) (*Interpreter, error) {
	if source == nil {
		return nil, errors.New("chatbot: nil source")
	}
	if clock == nil {
		return nil, errors.New("chatbot: nil clock")
	}
	interpreter := &Interpreter{
		source:    source,
		clock:     clock,
		alerts:    scanner,
		forecasts: forecaster,
		logger:    logger,
	}
	interpreter.intents = []intent{
		{name: "alert", matches: reAlertIntent.MatchString, handle: interpreter.answerAlerts},
		{name: "prediction", matches: rePredictionIntent.MatchString, handle: interpreter.answerPrediction},
		{name: "comparison", matches: reComparisonIntent.MatchString, handle: interpreter.answerComparison},
		{name: "trend", matches: reTrendIntent.MatchString, handle: interpreter.answerTrend},
		{name: "performance", matches: rePerformanceIntent.MatchString, handle: interpreter.answerPerformance},
		{name: "ranking", matches: reRankingIntent.MatchString, handle: interpreter.answerRanking},
	}
	return interpreter, nil
}

// Answer interprets the question and renders a French response.
func (i *Interpreter) Answer(ctx context.Context, question string) string {
	raw := question
	question = strings.ToLower(strings.TrimSpace(question))
	if question == "" {
		return helpResponse
	}

	if reGreeting.MatchString(question) {
		return greetingResponse
	}
	if reHelp.MatchString(question) {
		return helpResponse
	}

	for _, candidate := range i.intents {
		if candidate.matches(question) {
			return candidate.handle(ctx, question, raw)
		}
	}

	return i.answerSlots(ctx, question, raw)
}

// IntentOf reports which special intent would consume the question, or
// "slots" when none matches. Used for metrics labelling.
func (i *Interpreter) IntentOf(question string) string {
	question = strings.ToLower(strings.TrimSpace(question))
	if reGreeting.MatchString(question) {
		return "greeting"
	}
	if reHelp.MatchString(question) {
		return "help"
	}
	for _, candidate := range i.intents {
		if candidate.matches(question) {
			return candidate.name
		}
	}
	return "slots"
}

// answerSlots is the fallback path: extract the four slots, fetch the period
// and render a templated sentence.
func (i *Interpreter) answerSlots(ctx context.Context, question, raw string) string {
	extracted := extractSlots(question, raw)

	from, to, err := extracted.Period.Resolve(i.clock.Now())
	if err != nil {
		return errorResponse
	}
	records, err := i.source.FetchRange(ctx, from, to)
	if err != nil {
		if i.logger != nil {
			i.logger.Printf("chatbot fetch error: %v", err)
		}
		return errorResponse
	}
	periodText := extracted.Period.Label()
	if len(records) == 0 {
		return fmt.Sprintf("Aucune donnée disponible pour %s.", periodText)
	}

	if extracted.Domain != "" {
		records = analytics.FilterDomain(records, extracted.Domain)
		if len(records) == 0 {
			return fmt.Sprintf("Aucune donnée pour le domaine %s %s.", extracted.Domain, periodText)
		}
	}
	// A matricule narrows further and takes precedence in wording.
	if extracted.Matricule != "" {
		records = analytics.FilterMatricule(records, extracted.Matricule)
		if len(records) == 0 {
			return fmt.Sprintf("Aucune donnée pour l'employé %s %s.", extracted.Matricule, periodText)
		}
	}

	switch extracted.Metric {
	case MetricLateness:
		return renderCount(records, attendance.StatusLate, "retard(s)", extracted, periodText)
	case MetricAbsence:
		return renderCount(records, attendance.StatusAbsent, "absence(s)", extracted, periodText)
	case MetricPresence:
		return renderPresence(records, extracted, periodText)
	default:
		return renderGeneral(records, extracted, periodText)
	}
}

func renderCount(records []attendance.Record, status attendance.Status, noun string, extracted slots, periodText string) string {
	count := analytics.CountStatus(records, status)
	switch {
	case extracted.Matricule != "":
		return fmt.Sprintf("L'employé %s a %d %s %s.", extracted.Matricule, count, noun, periodText)
	case extracted.Domain != "":
		return fmt.Sprintf("Le domaine %s a %d %s %s.", extracted.Domain, count, noun, periodText)
	default:
		return fmt.Sprintf("Il y a %d %s au total %s.", count, noun, periodText)
	}
}

func renderPresence(records []attendance.Record, extracted slots, periodText string) string {
	present := analytics.CountStatus(records, attendance.StatusPresent)
	rate := analytics.PresenceRate(records) * 100
	switch {
	case extracted.Matricule != "":
		return fmt.Sprintf("L'employé %s a %d présence(s) %s.", extracted.Matricule, present, periodText)
	case extracted.Domain != "":
		return fmt.Sprintf("Le domaine %s a %d présence(s) %s (taux: %.1f%%).", extracted.Domain, present, periodText, rate)
	default:
		return fmt.Sprintf("Il y a %d présence(s) au total %s (taux: %.1f%%).", present, periodText, rate)
	}
}

func renderGeneral(records []attendance.Record, extracted slots, periodText string) string {
	present := analytics.CountStatus(records, attendance.StatusPresent)
	absent := analytics.CountStatus(records, attendance.StatusAbsent)
	late := analytics.CountStatus(records, attendance.StatusLate)
	switch {
	case extracted.Matricule != "":
		// The most recent record decides the employee's displayed status.
		status := records[len(records)-1].Status
		return fmt.Sprintf("L'employé %s est %s %s.", extracted.Matricule, strings.ToLower(status.String()), periodText)
	case extracted.Domain != "":
		return fmt.Sprintf("Domaine %s %s: %d présent(s), %d absent(s), %d retard(s).",
			extracted.Domain, periodText, present, absent, late)
	default:
		return fmt.Sprintf("Statistiques %s: %d présent(s), %d absent(s), %d retard(s).",
			periodText, present, absent, late)
	}
}

// SuggestedQuestions returns example questions for the dashboard.
func (i *Interpreter) SuggestedQuestions() []string {
	return []string{
		"Combien de retards chez les chantres aujourd'hui?",
		"Quel est le taux de présence du domaine Protocole cette semaine?",
		"Combien d'absences au total ce mois?",
		"Statistiques générales aujourd'hui",
		"Quel employé a le plus de retards?",
		"Quelle est la tendance de présence ce mois?",
	}
}
