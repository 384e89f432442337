package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	attendance "pointage-cloud/internal/attendance/domain"
)

// AttendanceRepository writes attendance rows.
type AttendanceRepository struct {
	db    *sql.DB
	table string
}

// RepositoryOption configures an AttendanceRepository.
type RepositoryOption func(*AttendanceRepository)

// WithRepositoryTable overrides the attendance table name.
func WithRepositoryTable(table string) RepositoryOption {
	return func(r *AttendanceRepository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewAttendanceRepository constructs a repository with the default table name.
func NewAttendanceRepository(db *sql.DB, opts ...RepositoryOption) *AttendanceRepository {
	repo := &AttendanceRepository{db: db, table: defaultAttendanceTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Insert records a check-in for the matricule at the given instant.
func (r *AttendanceRepository) Insert(ctx context.Context, matricule string, status attendance.Status, now time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("attendance repo: nil db")
	}
	matricule = attendance.NormalizeMatricule(matricule)
	if !attendance.ValidMatricule(matricule) {
		return attendance.ErrInvalidMatricule
	}
	if !status.Valid() {
		return attendance.ErrInvalidStatus
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	employee_id, attendance_date, check_in_time, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6)`, r.table)

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	_, err := r.db.ExecContext(ctx, query, matricule, day, now, status.String(), now, now)
	return err
}
