package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "attendance_records_today",
			Help: "Attendance rows recorded today",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM attendance WHERE attendance_date = CURRENT_DATE")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "attendance_employees_today",
			Help: "Distinct employees with a row today",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(DISTINCT employee_id) FROM attendance WHERE attendance_date = CURRENT_DATE")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
