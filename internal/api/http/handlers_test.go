package apihttp

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	alertapp "pointage-cloud/internal/alerts/application"
	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
	"pointage-cloud/internal/attendance/infrastructure/memory"
	"pointage-cloud/internal/audit"
	"pointage-cloud/internal/auth"
	"pointage-cloud/internal/chatbot"
	"pointage-cloud/internal/prediction"
)

// 2026-03-12 is a Thursday.
var testNow = time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func record(matricule string, day time.Time, status attendance.Status) attendance.Record {
	return attendance.Record{Matricule: matricule, Date: day, Status: status}
}

func todaySource() *memory.Source {
	today := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	return memory.NewSource(
		record("C001", today, attendance.StatusPresent),
		record("C002", today, attendance.StatusAbsent),
		record("P001", today, attendance.StatusLate),
	)
}

func TestStatsHandler(t *testing.T) {
	service, err := analytics.NewService(todaySource(), fixedClock{now: testNow})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler := NewStatsHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats?period=today", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Period     string               `json:"period"`
		Statistics analytics.Statistics `json:"statistics"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Period != "today" {
		t.Fatalf("period = %q", payload.Period)
	}
	if payload.Statistics.RecordCount != 3 {
		t.Fatalf("RecordCount = %d, want 3", payload.Statistics.RecordCount)
	}
}

func TestStatsHandlerUnknownPeriod(t *testing.T) {
	service, err := analytics.NewService(todaySource(), fixedClock{now: testNow})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler := NewStatsHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats?period=quarter", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestAlertsHandlerList(t *testing.T) {
	today := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	source := memory.NewSource(
		record("C001", today, attendance.StatusAbsent),
		record("C001", today.AddDate(0, 0, -1), attendance.StatusAbsent),
		record("C001", today.AddDate(0, 0, -2), attendance.StatusAbsent),
	)
	service, err := alertapp.NewService(source, fixedClock{now: testNow}, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler := NewAlertsHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		WindowDays int               `json:"window_days"`
		Alerts     []json.RawMessage `json:"alerts"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.WindowDays != 30 {
		t.Fatalf("window_days = %d", payload.WindowDays)
	}
	if len(payload.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(payload.Alerts))
	}
}

func TestAlertsHandlerNotify(t *testing.T) {
	service, err := alertapp.NewService(memory.NewSource(), fixedClock{now: testNow}, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler := NewAlertsHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/notify", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.Code)
	}
}

func TestChatbotHandler(t *testing.T) {
	interpreter, err := chatbot.NewInterpreter(todaySource(), fixedClock{now: testNow}, nil, nil, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new interpreter: %v", err)
	}
	handler := NewChatbotHandler(interpreter)

	body := strings.NewReader(`{"question":"Combien d'absences aujourd'hui?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chatbot", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(payload.Answer, "1 absence(s)") {
		t.Fatalf("answer = %q", payload.Answer)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/chatbot", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("suggestions status = %d", resp.Code)
	}
	var suggestions struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &suggestions); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(suggestions.Suggestions) == 0 {
		t.Fatal("want suggestions")
	}
}

func trainedSource() *memory.Source {
	source := memory.NewSource()
	base := testNow.AddDate(0, 0, -29)
	for i := 0; i < 30; i++ {
		source.Add(record("C001", base.AddDate(0, 0, i), attendance.StatusPresent))
	}
	return source
}

func TestPredictionHandler(t *testing.T) {
	engine, err := prediction.NewEngine(trainedSource(), fixedClock{now: testNow})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	handler := NewPredictionHandler(engine, fixedClock{now: testNow})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/predictions/C001?days=3", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Matricule   string                       `json:"matricule"`
		Domain      string                       `json:"domain"`
		Predictions []prediction.PredictionPoint `json:"predictions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Matricule != "C001" || payload.Domain != "Chantre" {
		t.Fatalf("payload = %+v", payload)
	}
	if len(payload.Predictions) != 3 {
		t.Fatalf("predictions = %d, want 3", len(payload.Predictions))
	}
}

func TestPredictionHandlerListsEmployees(t *testing.T) {
	engine, err := prediction.NewEngine(trainedSource(), fixedClock{now: testNow})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	handler := NewPredictionHandler(engine, fixedClock{now: testNow})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/predictions/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Employees []string `json:"employees"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Employees) != 1 || payload.Employees[0] != "C001" {
		t.Fatalf("employees = %v, want [C001]", payload.Employees)
	}
}

func TestPredictionHandlerRejects(t *testing.T) {
	engine, err := prediction.NewEngine(trainedSource(), fixedClock{now: testNow})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	handler := NewPredictionHandler(engine, fixedClock{now: testNow})

	cases := []struct {
		path string
		want int
	}{
		{"/api/v1/predictions/X001", http.StatusBadRequest},
		{"/api/v1/predictions/C001?days=0", http.StatusBadRequest},
		{"/api/v1/predictions/C001?days=90", http.StatusBadRequest},
		{"/api/v1/predictions/R999", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.path, resp.Code, tc.want)
		}
	}
}

func TestRiskHandler(t *testing.T) {
	engine, err := prediction.NewEngine(trainedSource(), fixedClock{now: testNow})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	handler := NewRiskHandler(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/risk/c001", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}

	var profile prediction.RiskProfile
	if err := json.Unmarshal(resp.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Matricule != "C001" {
		t.Fatalf("matricule = %q", profile.Matricule)
	}
	if profile.RiskLevel != prediction.RiskLow {
		t.Fatalf("risk = %q, want Faible", profile.RiskLevel)
	}
}

type stubWriter struct {
	matricule string
	status    attendance.Status
	err       error
}

func (s *stubWriter) Insert(_ context.Context, matricule string, status attendance.Status, _ time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.matricule = matricule
	s.status = status
	return nil
}

func TestCheckinHandler(t *testing.T) {
	writer := &stubWriter{}
	handler := NewCheckinHandler(writer, fixedClock{now: testNow}, log.New(io.Discard, "", 0))

	body := strings.NewReader(`{"matricule":"c001","status":"retard"}`)
	req := httptest.NewRequest(http.MethodPost, "/checkin/attendance", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	if writer.matricule != "C001" {
		t.Fatalf("persisted matricule = %q, want normalized C001", writer.matricule)
	}
	if writer.status != attendance.StatusLate {
		t.Fatalf("persisted status = %q", writer.status)
	}
}

func TestCheckinHandlerInvalid(t *testing.T) {
	handler := NewCheckinHandler(&stubWriter{}, fixedClock{now: testNow}, log.New(io.Discard, "", 0))

	body := strings.NewReader(`{"matricule":"C001","status":"congé"}`)
	req := httptest.NewRequest(http.MethodPost, "/checkin/attendance", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad status: status = %d, want 400", resp.Code)
	}

	failing := NewCheckinHandler(&stubWriter{err: attendance.ErrInvalidMatricule}, fixedClock{now: testNow}, log.New(io.Discard, "", 0))
	body = strings.NewReader(`{"matricule":"X001","status":"Présent"}`)
	req = httptest.NewRequest(http.MethodPost, "/checkin/attendance", body)
	resp = httptest.NewRecorder()
	failing.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad matricule: status = %d, want 400", resp.Code)
	}
}

type recordingAuditor struct {
	entries []audit.Entry
}

func (a *recordingAuditor) Log(_ context.Context, entry audit.Entry) error {
	a.entries = append(a.entries, entry)
	return nil
}

func TestExportHandlerCSV(t *testing.T) {
	service, err := analytics.NewService(todaySource(), fixedClock{now: testNow})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	auditor := &recordingAuditor{}
	handler := NewExportHandler(service, fixedClock{now: testNow}, auditor, log.New(io.Discard, "", 0))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/attendance.csv?period=today", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.RoleAdmin, "admin-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("content type = %q", got)
	}
	content := resp.Body.String()
	if !strings.Contains(content, "matricule") || !strings.Contains(content, "C001") {
		t.Fatalf("csv = %q", content)
	}

	if len(auditor.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(auditor.entries))
	}
	entry := auditor.entries[0]
	if entry.Actor != "admin-1" || entry.Action != "export" || entry.ResourceID != "csv" {
		t.Fatalf("audit entry = %+v", entry)
	}
}

func TestExportHandlerUnknownFormat(t *testing.T) {
	service, err := analytics.NewService(todaySource(), fixedClock{now: testNow})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler := NewExportHandler(service, fixedClock{now: testNow}, nil, log.New(io.Discard, "", 0))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/attendance.docx", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}
