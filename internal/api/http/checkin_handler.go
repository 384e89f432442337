package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
	"pointage-cloud/internal/observability/metrics"
)

// RecordWriter persists a single check-in.
type RecordWriter interface {
	Insert(ctx context.Context, matricule string, status attendance.Status, now time.Time) error
}

// CheckinHandler accepts check-ins from the scanner devices. The route is
// authenticated by the HMAC middleware, not by JWT.
type CheckinHandler struct {
	writer RecordWriter
	clock  analytics.Clock
	logger *log.Logger
}

// NewCheckinHandler constructs a CheckinHandler.
func NewCheckinHandler(writer RecordWriter, clock analytics.Clock, logger *log.Logger) *CheckinHandler {
	return &CheckinHandler{writer: writer, clock: clock, logger: logger}
}

type checkinRequest struct {
	Matricule string `json:"matricule"`
	Status    string `json:"status"`
}

// ServeHTTP handles POST /checkin/attendance.
func (h *CheckinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.writer == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	var request checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	matricule := attendance.NormalizeMatricule(request.Matricule)
	status, ok := attendance.ParseStatus(request.Status)
	if !ok {
		metrics.CountCheckin(attendance.ErrInvalidStatus)
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	err := h.writer.Insert(r.Context(), matricule, status, h.clock.Now())
	metrics.CountCheckin(err)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidMatricule) {
			http.Error(w, "invalid matricule", http.StatusBadRequest)
			return
		}
		h.logger.Printf("checkin: insert %s failed: %v", matricule, err)
		http.Error(w, "persist error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(struct {
		Matricule string            `json:"matricule"`
		Domain    attendance.Domain `json:"domain"`
		Status    attendance.Status `json:"status"`
	}{Matricule: matricule, Domain: attendance.ClassifyDomain(matricule), Status: status})
}
