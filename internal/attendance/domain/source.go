package attendance

import (
	"context"
	"log"
	"time"
)

// Source supplies time-bounded record sets. Implementations return records
// ordered by date ascending; both bounds are inclusive calendar days.
type Source interface {
	FetchRange(ctx context.Context, from, to time.Time) ([]Record, error)
}

// FailClosedSource wraps a Source so analytic callers never see a store
// failure: the underlying error is logged and the result degrades to empty.
// Callers must treat an empty result as "no data or data unavailable".
type FailClosedSource struct {
	inner  Source
	logger *log.Logger
}

// NewFailClosedSource wraps source with the degrade-to-empty policy.
func NewFailClosedSource(source Source, logger *log.Logger) *FailClosedSource {
	return &FailClosedSource{inner: source, logger: logger}
}

// FetchRange fetches records, returning an empty set on any failure.
func (s *FailClosedSource) FetchRange(ctx context.Context, from, to time.Time) ([]Record, error) {
	if s == nil || s.inner == nil {
		return nil, nil
	}
	records, err := s.inner.FetchRange(ctx, from, to)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("attendance source error (degrading to empty): %v", err)
		}
		return nil, nil
	}
	return records, nil
}
