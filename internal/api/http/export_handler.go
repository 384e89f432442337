package apihttp

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"pointage-cloud/internal/analytics"
	"pointage-cloud/internal/audit"
	"pointage-cloud/internal/auth"
	"pointage-cloud/internal/observability/metrics"
	"pointage-cloud/internal/reports"
)

// ExportHandler renders attendance reports as downloadable files.
type ExportHandler struct {
	service *analytics.Service
	clock   analytics.Clock
	auditor audit.Logger
	logger  *log.Logger
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(service *analytics.Service, clock analytics.Clock, auditor audit.Logger, logger *log.Logger) *ExportHandler {
	return &ExportHandler{service: service, clock: clock, auditor: auditor, logger: logger}
}

// ServeHTTP handles GET /api/v1/exports/attendance.{csv,xlsx,pdf}?period=...
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.service == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	name := pathTail(r.URL.Path, "/api/v1/exports/")
	dot := strings.LastIndex(name, ".")
	if dot < 0 || !strings.HasPrefix(name, "attendance.") {
		http.Error(w, "unknown export", http.StatusNotFound)
		return
	}
	format := name[dot+1:]

	period := analytics.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = analytics.PeriodMonth
	}
	if !period.IsValid() {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}

	records, err := h.service.RecordsForPeriod(r.Context(), period)
	if err != nil {
		metrics.CountExport(format, err)
		http.Error(w, "query records error", http.StatusInternalServerError)
		return
	}

	now := h.clock.Now()
	from, to, err := period.Resolve(now)
	if err != nil {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}
	report := reports.Report{
		Statistics: analytics.Aggregate(records, now),
		Summary:    analytics.DomainSummary(records),
		From:       from,
		To:         to,
		Generated:  now,
	}

	var payload []byte
	var contentType string
	switch format {
	case "csv":
		payload, err = reports.BuildCSV(records)
		contentType = "text/csv"
	case "xlsx":
		payload, err = reports.BuildXLSX(report)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		payload, err = reports.BuildPDF(report)
		contentType = "application/pdf"
	default:
		http.Error(w, "unknown export format", http.StatusNotFound)
		return
	}
	metrics.CountExport(format, err)
	if err != nil {
		h.logger.Printf("exports: render %s failed: %v", format, err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	h.logExport(r, format, period, len(records))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(payload)
}

func (h *ExportHandler) logExport(r *http.Request, format string, period analytics.Period, count int) {
	if h.auditor == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{"period": period, "records": count})
	entry := audit.Entry{
		ID:           audit.NewID(),
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       "export",
		ResourceType: "attendance_report",
		ResourceID:   format,
		Metadata:     meta,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
		CreatedAt:    h.clock.Now(),
	}
	if err := h.auditor.Log(r.Context(), entry); err != nil {
		h.logger.Printf("exports: audit log failed: %v", err)
	}
}
