package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	attendance "pointage-cloud/internal/attendance/domain"
)

// Source is an in-memory attendance source for tests and tooling.
type Source struct {
	mu      sync.RWMutex
	records []attendance.Record
	err     error
}

// NewSource constructs an empty in-memory source.
func NewSource(records ...attendance.Record) *Source {
	return &Source{records: records}
}

// Add appends records.
func (s *Source) Add(records ...attendance.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// Fail makes every subsequent fetch return err.
func (s *Source) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// FetchRange returns records within [from, to] ordered by date ascending.
func (s *Source) FetchRange(_ context.Context, from, to time.Time) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]attendance.Record, 0, len(s.records))
	for _, record := range s.records {
		day := record.Day()
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		out = append(out, record)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
