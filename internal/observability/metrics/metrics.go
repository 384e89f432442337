package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "pointage_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	fetchLatency *prometheus.HistogramVec

	chatbotQuestions *prometheus.CounterVec

	alertScans    prometheus.Counter
	alertsFlagged prometheus.Counter
	smsSent       *prometheus.CounterVec

	predictionsServed *prometheus.CounterVec

	exportRequests *prometheus.CounterVec

	checkinRequests *prometheus.CounterVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		fetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "record_fetch_latency_seconds",
				Help:    "Attendance record fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		chatbotQuestions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "chatbot_questions_total",
				Help: "Chatbot questions by resolved intent",
			},
			[]string{"intent"},
		)

		alertScans = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "alert_scans_total",
				Help: "Alert window scans",
			},
		)
		alertsFlagged = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "alerts_flagged_total",
				Help: "Alerts produced by scans",
			},
		)
		smsSent = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alert_sms_total",
				Help: "Alert SMS dispatches by result",
			},
			[]string{"result"},
		)

		predictionsServed = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "predictions_total",
				Help: "Prediction requests by result",
			},
			[]string{"result"},
		)

		exportRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_requests_total",
				Help: "Report export requests by format and result",
			},
			[]string{"format", "result"},
		)

		checkinRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "checkin_requests_total",
				Help: "QR check-in submissions by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			fetchLatency,
			chatbotQuestions,
			alertScans,
			alertsFlagged,
			smsSent,
			predictionsServed,
			exportRequests,
			checkinRequests,
		)

		registerDBMetrics(db, logger)
	})
}

// ObserveFetch records one record-set fetch.
func ObserveFetch(err error, elapsed time.Duration) {
	if fetchLatency == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	fetchLatency.WithLabelValues(result).Observe(elapsed.Seconds())
}

// CountQuestion records one chatbot question.
func CountQuestion(intent string) {
	if chatbotQuestions == nil {
		return
	}
	chatbotQuestions.WithLabelValues(intent).Inc()
}

// CountAlertScan records one scan and the alerts it produced.
func CountAlertScan(flagged int) {
	if alertScans == nil {
		return
	}
	alertScans.Inc()
	alertsFlagged.Add(float64(flagged))
}

// CountSMS records one SMS dispatch.
func CountSMS(err error) {
	if smsSent == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	smsSent.WithLabelValues(result).Inc()
}

// CountPrediction records one prediction request.
func CountPrediction(err error) {
	if predictionsServed == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	predictionsServed.WithLabelValues(result).Inc()
}

// CountExport records one export request.
func CountExport(format string, err error) {
	if exportRequests == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	exportRequests.WithLabelValues(format, result).Inc()
}

// CountCheckin records one check-in submission.
func CountCheckin(err error) {
	if checkinRequests == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	checkinRequests.WithLabelValues(result).Inc()
}
