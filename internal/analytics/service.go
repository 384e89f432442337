package analytics

import (
	"context"
	"errors"
	"time"

	attendance "pointage-cloud/internal/attendance/domain"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Service answers statistics queries by fetching a record set and
// aggregating it. A store failure degrades to all-zero statistics.
type Service struct {
	source attendance.Source
	clock  Clock
}

// NewService constructs a statistics service.
func NewService(source attendance.Source, clock Clock) (*Service, error) {
	if source == nil {
		return nil, errors.New("analytics service: nil source")
	}
	if clock == nil {
		return nil, errors.New("analytics service: nil clock")
	}
	return &Service{source: source, clock: clock}, nil
}

// StatisticsForPeriod aggregates the named period.
func (s *Service) StatisticsForPeriod(ctx context.Context, period Period) (Statistics, error) {
	now := s.clock.Now()
	from, to, err := period.Resolve(now)
	if err != nil {
		return Aggregate(nil, now), err
	}
	return s.StatisticsForRange(ctx, from, to)
}

// StatisticsForRange aggregates an explicit date range.
func (s *Service) StatisticsForRange(ctx context.Context, from, to time.Time) (Statistics, error) {
	now := s.clock.Now()
	records, err := s.source.FetchRange(ctx, from, to)
	if err != nil {
		return Aggregate(nil, now), nil
	}
	return Aggregate(records, now), nil
}

// RecordsForPeriod fetches the raw record set behind a period.
func (s *Service) RecordsForPeriod(ctx context.Context, period Period) ([]attendance.Record, error) {
	from, to, err := period.Resolve(s.clock.Now())
	if err != nil {
		return nil, err
	}
	records, err := s.source.FetchRange(ctx, from, to)
	if err != nil {
		return nil, nil
	}
	return records, nil
}
