// Package sweeper reconciles stored grant status with wall-clock expiry.
//
// The sweep only keeps listings and reports accurate. Authorization never
// depends on it: the live check compares expires_at against the request time.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"healthbridge/internal/grants/metrics"
	"healthbridge/internal/grants/models"
	"healthbridge/pkg/requestcontext"
)

// Expirer performs one bulk expiry at now.
type Expirer interface {
	ExpireDue(ctx context.Context, now time.Time) (models.SweepResult, error)
}

// Service runs Expirer on a fixed interval.
type Service struct {
	expirer  Expirer
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithInterval overrides the sweep interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithRunTimeout bounds a single sweep run.
func WithRunTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a sweeper. The default interval is five minutes.
func New(expirer Expirer, opts ...Option) (*Service, error) {
	if expirer == nil {
		return nil, fmt.Errorf("expirer is required")
	}
	svc := &Service{
		expirer:  expirer,
		interval: 5 * time.Minute,
		timeout:  30 * time.Second,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start sweeps every interval until ctx is cancelled. A failed run is logged
// and retried on the next tick; Start itself only returns on cancellation.
func (s *Service) Start(ctx context.Context) error {
	s.logger.InfoContext(ctx, "expiry sweeper started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "expiry sweep failed", "error", err)
			}
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "expiry sweeper stopped")
			return ctx.Err()
		}
	}
}

// RunOnce performs a single sweep pinned to one instant. A panic inside the
// run is recovered and returned as an error.
func (s *Service) RunOnce(ctx context.Context) (result models.SweepResult, err error) {
	now := s.now()
	start := time.Now()

	runCtx, cancel := context.WithTimeout(requestcontext.WithTime(ctx, now), s.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("expiry sweep panicked: %v", rec)
			s.logger.ErrorContext(ctx, "expiry sweep panic recovered",
				"error", rec,
				"stack", string(debug.Stack()),
			)
		}
		s.metrics.ObserveSweep(time.Since(start).Seconds(), result.ExpiredStandard, result.ExpiredEmergency, err)
	}()

	result, err = s.expirer.ExpireDue(runCtx, now)
	if err != nil {
		return result, err
	}
	if result.Total() > 0 {
		s.logger.InfoContext(ctx, "expired grants",
			"standard", result.ExpiredStandard,
			"emergency", result.ExpiredEmergency,
			"pending", result.ExpiredPending,
		)
	}
	return result, nil
}
