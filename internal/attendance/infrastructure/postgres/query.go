package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	attendance "pointage-cloud/internal/attendance/domain"
)

const defaultAttendanceTable = "attendance"

// AttendanceQuery reads attendance records from Postgres.
type AttendanceQuery struct {
	db    *sql.DB
	table string
}

// QueryOption configures an AttendanceQuery.
type QueryOption func(*AttendanceQuery)

// WithTable overrides the attendance table name.
func WithTable(table string) QueryOption {
	return func(q *AttendanceQuery) {
		if table != "" {
			q.table = table
		}
	}
}

// NewAttendanceQuery constructs a query with the default table name.
func NewAttendanceQuery(db *sql.DB, opts ...QueryOption) *AttendanceQuery {
	query := &AttendanceQuery{db: db, table: defaultAttendanceTable}
	for _, opt := range opts {
		opt(query)
	}
	return query
}

// FetchRange returns records whose attendance date falls within [from, to],
// ordered by date then check-in time. Rows with an unknown status label are
// discarded at this boundary.
func (q *AttendanceQuery) FetchRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	if q == nil || q.db == nil {
		return nil, errors.New("attendance query: nil db")
	}
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, attendance.ErrInvalidRange
	}

	query := fmt.Sprintf(`
SELECT employee_id, attendance_date, check_in_time, status, created_at
FROM %s
WHERE attendance_date >= $1
	AND attendance_date <= $2
ORDER BY attendance_date ASC, check_in_time ASC`, q.table)

	rows, err := q.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		var (
			matricule string
			date      time.Time
			checkIn   sql.NullTime
			status    string
			createdAt time.Time
		)
		if err := rows.Scan(&matricule, &date, &checkIn, &status, &createdAt); err != nil {
			return nil, err
		}
		parsed, ok := attendance.ParseStatus(status)
		if !ok {
			continue
		}
		record := attendance.Record{
			Matricule: attendance.NormalizeMatricule(matricule),
			Date:      date,
			Status:    parsed,
			CreatedAt: createdAt,
		}
		if checkIn.Valid {
			t := checkIn.Time
			record.CheckIn = &t
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
