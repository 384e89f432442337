package apihttp

import (
	"encoding/json"
	"net/http"
	"time"

	alertapp "pointage-cloud/internal/alerts/application"
	"pointage-cloud/internal/analytics"
	"pointage-cloud/internal/observability/metrics"
)

// StatsHandler serves aggregate attendance statistics.
type StatsHandler struct {
	service *analytics.Service
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(service *analytics.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

// ServeHTTP handles GET /api/v1/stats?period=today|yesterday|week|month.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.service == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	period := analytics.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = analytics.PeriodToday
	}
	if !period.IsValid() {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}

	started := time.Now()
	stats, err := h.service.StatisticsForPeriod(r.Context(), period)
	metrics.ObserveFetch(err, time.Since(started))
	if err != nil {
		http.Error(w, "query stats error", http.StatusInternalServerError)
		return
	}

	records, _ := h.service.RecordsForPeriod(r.Context(), period)
	response := struct {
		Period     analytics.Period     `json:"period"`
		Statistics analytics.Statistics `json:"statistics"`
		Domains    any                  `json:"domains"`
	}{
		Period:     period,
		Statistics: stats,
		Domains:    analytics.DomainSummary(records),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// AlertsHandler serves alert scans and manual notification dispatch.
type AlertsHandler struct {
	service *alertapp.Service
}

// NewAlertsHandler constructs an AlertsHandler.
func NewAlertsHandler(service *alertapp.Service) *AlertsHandler {
	return &AlertsHandler{service: service}
}

// ServeHTTP handles GET /api/v1/alerts and POST /api/v1/alerts/notify.
func (h *AlertsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/alerts":
		alertList := h.service.CheckAlerts(r.Context())
		metrics.CountAlertScan(len(alertList))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			WindowDays int `json:"window_days"`
			Alerts     any `json:"alerts"`
		}{WindowDays: h.service.WindowDays(), Alerts: alertList})
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/alerts/notify":
		h.service.Sweep(r.Context())
		w.WriteHeader(http.StatusAccepted)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
