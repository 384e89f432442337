package prediction

import (
	"errors"
	"math"

	attendance "pointage-cloud/internal/attendance/domain"
)

// gaussianNB is a Gaussian naive Bayes multi-class classifier over fixed-size
// feature vectors. It fits class priors plus per-feature mean and variance,
// and scores with log densities.
type gaussianNB struct {
	classes  []attendance.Status
	priors   []float64
	means    [][featureCount]float64
	variance [][featureCount]float64
}

// varianceFloor keeps degenerate (constant) features from producing a zero
// variance and an infinite density.
const varianceFloor = 1e-6

func fitGaussianNB(rows []FeatureRow) (*gaussianNB, error) {
	if len(rows) == 0 {
		return nil, errors.New("prediction: no training rows")
	}

	byClass := make(map[attendance.Status][]FeatureRow)
	order := make([]attendance.Status, 0, 3)
	for _, row := range rows {
		if _, seen := byClass[row.Label]; !seen {
			order = append(order, row.Label)
		}
		byClass[row.Label] = append(byClass[row.Label], row)
	}

	model := &gaussianNB{
		classes:  order,
		priors:   make([]float64, len(order)),
		means:    make([][featureCount]float64, len(order)),
		variance: make([][featureCount]float64, len(order)),
	}

	for classIdx, class := range order {
		members := byClass[class]
		model.priors[classIdx] = float64(len(members)) / float64(len(rows))

		var sums [featureCount]float64
		for _, row := range members {
			vector := row.Vector()
			for f := 0; f < featureCount; f++ {
				sums[f] += vector[f]
			}
		}
		for f := 0; f < featureCount; f++ {
			model.means[classIdx][f] = sums[f] / float64(len(members))
		}

		var squares [featureCount]float64
		for _, row := range members {
			vector := row.Vector()
			for f := 0; f < featureCount; f++ {
				diff := vector[f] - model.means[classIdx][f]
				squares[f] += diff * diff
			}
		}
		for f := 0; f < featureCount; f++ {
			v := squares[f] / float64(len(members))
			if v < varianceFloor {
				v = varianceFloor
			}
			model.variance[classIdx][f] = v
		}
	}

	return model, nil
}

// predictProba returns P(class | vector) for every trained class.
func (m *gaussianNB) predictProba(vector [featureCount]float64) map[attendance.Status]float64 {
	logProbs := make([]float64, len(m.classes))
	for classIdx := range m.classes {
		logProb := math.Log(m.priors[classIdx])
		for f := 0; f < featureCount; f++ {
			mean := m.means[classIdx][f]
			variance := m.variance[classIdx][f]
			diff := vector[f] - mean
			logProb += -0.5*math.Log(2*math.Pi*variance) - diff*diff/(2*variance)
		}
		logProbs[classIdx] = logProb
	}

	// Normalize in log space to avoid underflow.
	maxLog := logProbs[0]
	for _, lp := range logProbs[1:] {
		if lp > maxLog {
			maxLog = lp
		}
	}
	total := 0.0
	probs := make([]float64, len(logProbs))
	for i, lp := range logProbs {
		probs[i] = math.Exp(lp - maxLog)
		total += probs[i]
	}

	out := make(map[attendance.Status]float64, len(m.classes))
	for i, class := range m.classes {
		out[class] = probs[i] / total
	}
	return out
}

// predict returns the most probable class and its probability.
func (m *gaussianNB) predict(vector [featureCount]float64) (attendance.Status, float64, map[attendance.Status]float64) {
	probs := m.predictProba(vector)
	var best attendance.Status
	bestProb := -1.0
	for _, class := range m.classes {
		if probs[class] > bestProb {
			best = class
			bestProb = probs[class]
		}
	}
	return best, bestProb, probs
}
