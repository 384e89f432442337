package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
	"pointage-cloud/internal/observability/metrics"
	"pointage-cloud/internal/prediction"
)

const (
	defaultForecastDays = 7
	maxForecastDays     = 30
)

// PredictionHandler serves per-employee attendance forecasts.
type PredictionHandler struct {
	engine *prediction.Engine
	clock  analytics.Clock
}

// NewPredictionHandler constructs a PredictionHandler.
func NewPredictionHandler(engine *prediction.Engine, clock analytics.Clock) *PredictionHandler {
	return &PredictionHandler{engine: engine, clock: clock}
}

// ServeHTTP handles GET /api/v1/predictions/{matricule}?days=N.
func (h *PredictionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.engine == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	tail := pathTail(r.URL.Path, "/api/v1/predictions/")
	if tail == "" {
		h.listEmployees(w, r)
		return
	}
	matricule := attendance.NormalizeMatricule(tail)
	if !attendance.ValidMatricule(matricule) {
		http.Error(w, "invalid matricule", http.StatusBadRequest)
		return
	}

	days := defaultForecastDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxForecastDays {
			http.Error(w, "invalid days parameter", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	model, err := h.engine.Train(r.Context())
	if err != nil {
		metrics.CountPrediction(err)
		if errors.Is(err, prediction.ErrInsufficientHistory) {
			http.Error(w, "not enough history to train", http.StatusConflict)
			return
		}
		http.Error(w, "training error", http.StatusInternalServerError)
		return
	}

	points, err := model.Predict(matricule, days, h.clock.Now())
	metrics.CountPrediction(err)
	if err != nil {
		if errors.Is(err, prediction.ErrUnknownEmployee) {
			http.Error(w, "unknown matricule", http.StatusNotFound)
			return
		}
		http.Error(w, "prediction error", http.StatusInternalServerError)
		return
	}

	response := struct {
		Matricule   string                       `json:"matricule"`
		Domain      attendance.Domain            `json:"domain"`
		Accuracy    float64                      `json:"accuracy"`
		Degraded    bool                         `json:"degraded"`
		Predictions []prediction.PredictionPoint `json:"predictions"`
	}{
		Matricule:   matricule,
		Domain:      attendance.ClassifyDomain(matricule),
		Accuracy:    model.Accuracy,
		Degraded:    model.Degraded,
		Predictions: points,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// listEmployees answers GET /api/v1/predictions/ with the matricules the
// trained model can forecast.
func (h *PredictionHandler) listEmployees(w http.ResponseWriter, r *http.Request) {
	model, err := h.engine.Train(r.Context())
	if err != nil {
		if errors.Is(err, prediction.ErrInsufficientHistory) {
			http.Error(w, "not enough history to train", http.StatusConflict)
			return
		}
		http.Error(w, "training error", http.StatusInternalServerError)
		return
	}

	response := struct {
		Employees []string `json:"employees"`
	}{Employees: model.Employees()}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// RiskHandler serves the rule-based 30-day risk profile.
type RiskHandler struct {
	engine *prediction.Engine
}

// NewRiskHandler constructs a RiskHandler.
func NewRiskHandler(engine *prediction.Engine) *RiskHandler {
	return &RiskHandler{engine: engine}
}

// ServeHTTP handles GET /api/v1/risk/{matricule}.
func (h *RiskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.engine == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	matricule := attendance.NormalizeMatricule(pathTail(r.URL.Path, "/api/v1/risk/"))
	if !attendance.ValidMatricule(matricule) {
		http.Error(w, "invalid matricule", http.StatusBadRequest)
		return
	}

	profile, err := h.engine.Risk(r.Context(), matricule)
	if err != nil {
		if errors.Is(err, prediction.ErrUnknownEmployee) {
			http.Error(w, "unknown matricule", http.StatusNotFound)
			return
		}
		http.Error(w, "risk error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}

func pathTail(path, prefix string) string {
	tail := strings.TrimPrefix(path, prefix)
	return strings.Trim(tail, "/")
}
