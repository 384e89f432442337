package application

import (
	"context"
	"errors"
	"log"
	"time"

	alerts "pointage-cloud/internal/alerts/domain"
	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
)

const defaultWindowDays = 30

// Notifier dispatches an alert summary to its destinations.
type Notifier interface {
	Notify(ctx context.Context, alertList []alerts.Alert) error
}

// Service runs alert scans over the trailing window.
type Service struct {
	source     attendance.Source
	clock      analytics.Clock
	windowDays int
	notifier   Notifier
	logger     *log.Logger
}

// Option configures the service.
type Option func(*Service)

// WithWindowDays overrides the trailing window length.
func WithWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// WithNotifier attaches a notification dispatcher.
func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// NewService constructs an alert service.
func NewService(source attendance.Source, clock analytics.Clock, logger *log.Logger, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, errors.New("alert service: nil source")
	}
	if clock == nil {
		return nil, errors.New("alert service: nil clock")
	}
	service := &Service{
		source:     source,
		clock:      clock,
		windowDays: defaultWindowDays,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// WindowDays returns the configured trailing window length.
func (s *Service) WindowDays() int { return s.windowDays }

// CheckAlerts scans the trailing window. A store failure degrades to an
// empty list; callers must treat empty as "no alerts or data unavailable".
func (s *Service) CheckAlerts(ctx context.Context) []alerts.Alert {
	from, to := analytics.TrailingWindow(s.clock.Now(), s.windowDays)
	records, err := s.source.FetchRange(ctx, from, to)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("alert scan fetch error (degrading to empty): %v", err)
		}
		return []alerts.Alert{}
	}
	return alerts.Scan(records, s.windowDays)
}

// Sweep runs a scan and dispatches notifications when alerts are present.
// Used by the scheduled daily job.
func (s *Service) Sweep(ctx context.Context) {
	started := time.Now()
	alertList := s.CheckAlerts(ctx)
	if s.logger != nil {
		s.logger.Printf("alert sweep: %d alert(s) over %d days in %s", len(alertList), s.windowDays, time.Since(started))
	}
	if len(alertList) == 0 || s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, alertList); err != nil && s.logger != nil {
		s.logger.Printf("alert notify error: %v", err)
	}
}
