package notify

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	alerts "pointage-cloud/internal/alerts/domain"
	attendance "pointage-cloud/internal/attendance/domain"
	"pointage-cloud/internal/observability/metrics"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func sampleAlert(matricule string, kind alerts.Kind, count int) alerts.Alert {
	return alerts.Alert{
		Matricule:  matricule,
		Domain:     attendance.ClassifyDomain(matricule),
		Kind:       kind,
		Count:      count,
		WindowDays: 30,
		Severity:   alerts.SeverityMedium,
	}
}

func TestSMSChannelPayload(t *testing.T) {
	formCh := make(chan url.Values, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form, err := url.ParseQuery(string(body))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		user, _, ok := r.BasicAuth()
		if !ok || user != "sid-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		formCh <- form
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	channel, err := NewSMSChannel(server.URL, "sid-1", "token-1", "+33100000000")
	if err != nil {
		t.Fatalf("new sms channel: %v", err)
	}
	if err := channel.Send(context.Background(), "+33600000001", "bonjour"); err != nil {
		t.Fatalf("send: %v", err)
	}

	form := <-formCh
	if form.Get("To") != "+33600000001" {
		t.Fatalf("To = %q", form.Get("To"))
	}
	if form.Get("From") != "+33100000000" {
		t.Fatalf("From = %q", form.Get("From"))
	}
	if form.Get("Body") != "bonjour" {
		t.Fatalf("Body = %q", form.Get("Body"))
	}
}

func TestSMSChannelGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	channel, err := NewSMSChannel(server.URL, "", "", "+33100000000")
	if err != nil {
		t.Fatalf("new sms channel: %v", err)
	}
	if err := channel.Send(context.Background(), "+33600000001", "bonjour"); err == nil {
		t.Fatal("want error on gateway 502")
	}
}

func TestTemplateRender(t *testing.T) {
	tpl, err := NewTemplate("")
	if err != nil {
		t.Fatalf("new template: %v", err)
	}

	alertList := []alerts.Alert{
		sampleAlert("C001", alerts.KindExcessiveAbsence, 4),
		sampleAlert("C002", alerts.KindExcessiveAbsence, 3),
		sampleAlert("C003", alerts.KindExcessiveAbsence, 3),
		sampleAlert("C004", alerts.KindExcessiveAbsence, 3),
		sampleAlert("P001", alerts.KindFrequentLateness, 5),
	}
	now := time.Date(2026, 3, 12, 7, 0, 0, 0, time.UTC)
	content, err := tpl.Render(alertList, now)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(content, "ABSENCES: 4 employé(s)") {
		t.Fatalf("missing absence count in %q", content)
	}
	if !strings.Contains(content, "RETARDS: 1 employé(s)") {
		t.Fatalf("missing lateness count in %q", content)
	}
	// Only the first three absence alerts are listed.
	if strings.Contains(content, "C004") {
		t.Fatalf("content lists more than 3 absences: %q", content)
	}
	if !strings.Contains(content, "12/03/2026 07:00") {
		t.Fatalf("missing generation stamp in %q", content)
	}
}

type recordingChannel struct {
	sent   []string
	failTo string
}

func (c *recordingChannel) Send(_ context.Context, to, _ string) error {
	if to == c.failTo {
		return errors.New("unreachable")
	}
	c.sent = append(c.sent, to)
	return nil
}

func TestNotifierSendsToEveryDestination(t *testing.T) {
	tpl, err := NewTemplate("")
	if err != nil {
		t.Fatalf("new template: %v", err)
	}
	channel := &recordingChannel{failTo: "+33600000002"}
	clock := fixedClock{now: time.Date(2026, 3, 12, 7, 0, 0, 0, time.UTC)}
	logger := log.New(io.Discard, "", 0)

	notifier, err := NewNotifier(channel, tpl, []string{"+33600000001", "+33600000002", "+33600000003"}, clock, logger)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	err = notifier.Notify(context.Background(), []alerts.Alert{sampleAlert("C001", alerts.KindExcessiveAbsence, 3)})
	if err == nil {
		t.Fatal("want last error surfaced when one destination fails")
	}
	if len(channel.sent) != 2 {
		t.Fatalf("sent to %d destinations, want 2", len(channel.sent))
	}
}

func smsCounterValue(t *testing.T, result string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "pointage_alert_sms_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" && label.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestNotifierCountsDispatches(t *testing.T) {
	metrics.Init(nil, nil)

	tpl, err := NewTemplate("")
	if err != nil {
		t.Fatalf("new template: %v", err)
	}
	channel := &recordingChannel{failTo: "+33600000003"}
	clock := fixedClock{now: time.Date(2026, 3, 12, 7, 0, 0, 0, time.UTC)}
	logger := log.New(io.Discard, "", 0)

	notifier, err := NewNotifier(channel, tpl, []string{"+33600000001", "+33600000002", "+33600000003"}, clock, logger)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	successBefore := smsCounterValue(t, "success")
	errorBefore := smsCounterValue(t, "error")

	_ = notifier.Notify(context.Background(), []alerts.Alert{sampleAlert("C001", alerts.KindExcessiveAbsence, 3)})

	if got := smsCounterValue(t, "success") - successBefore; got != 2 {
		t.Fatalf("success dispatches counted = %v, want 2", got)
	}
	if got := smsCounterValue(t, "error") - errorBefore; got != 1 {
		t.Fatalf("failed dispatches counted = %v, want 1", got)
	}
}

func TestNotifierSkipsEmptyScan(t *testing.T) {
	tpl, err := NewTemplate("")
	if err != nil {
		t.Fatalf("new template: %v", err)
	}
	channel := &recordingChannel{}
	notifier, err := NewNotifier(channel, tpl, []string{"+33600000001"}, fixedClock{now: time.Now()}, nil)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	if err := notifier.Notify(context.Background(), nil); err != nil {
		t.Fatalf("empty notify: %v", err)
	}
	if len(channel.sent) != 0 {
		t.Fatal("empty scan must not send")
	}
}
