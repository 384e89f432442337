package prediction

import (
	"context"
	"errors"
	"sort"
	"time"

	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
)

const (
	historyDays = 30
	minHoldout  = 10
)

// PredictionPoint is one forecast day for one employee.
type PredictionPoint struct {
	Date          time.Time                     `json:"date"`
	Status        attendance.Status             `json:"status"`
	Confidence    float64                       `json:"confidence"`
	Probabilities map[attendance.Status]float64 `json:"probabilities"`
}

// Model is a trained classifier plus the per-employee state needed to build
// future feature rows.
type Model struct {
	classifier *gaussianNB
	lastRows   map[string]FeatureRow
	// Accuracy is measured on a chronological holdout when the sample
	// permits; with fewer than 10 rows it is measured on the training rows
	// themselves and Degraded is set.
	Accuracy float64
	Degraded bool
	Rows     int
}

// Engine trains attendance forecasts from the trailing history window.
type Engine struct {
	source attendance.Source
	clock  analytics.Clock
}

// NewEngine constructs a prediction engine.
func NewEngine(source attendance.Source, clock analytics.Clock) (*Engine, error) {
	if source == nil {
		return nil, errors.New("prediction engine: nil source")
	}
	if clock == nil {
		return nil, errors.New("prediction engine: nil clock")
	}
	return &Engine{source: source, clock: clock}, nil
}

// Train fetches the trailing 30 days and fits a model over all employees
// pooled together.
func (e *Engine) Train(ctx context.Context) (*Model, error) {
	from, to := analytics.TrailingWindow(e.clock.Now(), historyDays)
	records, err := e.source.FetchRange(ctx, from, to)
	if err != nil || len(records) == 0 {
		return nil, ErrInsufficientHistory
	}
	return TrainModel(records)
}

// TrainModel fits a model over an explicit record set.
func TrainModel(records []attendance.Record) (*Model, error) {
	rows := BuildFeatures(records)
	if len(rows) == 0 {
		return nil, ErrInsufficientHistory
	}

	// Chronological split keeps evaluation causal.
	sorted := make([]FeatureRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	trainRows, evalRows := sorted, sorted
	degraded := true
	if len(sorted) >= minHoldout {
		cut := len(sorted) * 4 / 5
		trainRows, evalRows = sorted[:cut], sorted[cut:]
		degraded = false
	}

	classifier, err := fitGaussianNB(trainRows)
	if err != nil {
		return nil, err
	}

	correct := 0
	for _, row := range evalRows {
		predicted, _, _ := classifier.predict(row.Vector())
		if predicted == row.Label {
			correct++
		}
	}

	lastRows := make(map[string]FeatureRow)
	for _, row := range sorted {
		lastRows[row.Matricule] = row
	}

	return &Model{
		classifier: classifier,
		lastRows:   lastRows,
		Accuracy:   float64(correct) / float64(max(len(evalRows), 1)),
		Degraded:   degraded,
		Rows:       len(rows),
	}, nil
}

// Predict forecasts daysAhead days for the employee, starting tomorrow.
// Historical features stay frozen at the employee's last observed row; only
// calendar features advance. There is no feedback loop, so points beyond the
// first day are statistically weaker.
func (m *Model) Predict(matricule string, daysAhead int, now time.Time) ([]PredictionPoint, error) {
	if m == nil || m.classifier == nil {
		return nil, ErrNotTrained
	}
	matricule = attendance.NormalizeMatricule(matricule)
	last, ok := m.lastRows[matricule]
	if !ok {
		return nil, ErrUnknownEmployee
	}
	if daysAhead <= 0 {
		return []PredictionPoint{}, nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	points := make([]PredictionPoint, 0, daysAhead)
	for i := 0; i < daysAhead; i++ {
		future := today.AddDate(0, 0, i+1)

		row := last
		row.Date = future
		row.DayOfWeek = int(future.Weekday())
		row.Month = int(future.Month())
		row.DayOfMonth = future.Day()
		_, row.ISOWeek = future.ISOWeek()
		row.TotalDays = last.TotalDays + i + 1

		status, confidence, probs := m.classifier.predict(row.Vector())
		points = append(points, PredictionPoint{
			Date:          future,
			Status:        status,
			Confidence:    confidence,
			Probabilities: probs,
		})
	}
	return points, nil
}

// Employees lists the matricules the model can predict for.
func (m *Model) Employees() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.lastRows))
	for matricule := range m.lastRows {
		out = append(out, matricule)
	}
	sort.Strings(out)
	return out
}
