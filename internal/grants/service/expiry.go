package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthbridge/internal/grants/models"
)

// ExpireDue moves APPROVED standard and ACTIVE emergency grants whose expiry
// is at or before now to EXPIRED. PENDING grants are included only when
// WithExpirePending is set. Each bulk update runs even if another fails; the
// failures are joined. It writes no audit entries.
func (s *Service) ExpireDue(ctx context.Context, now time.Time) (result models.SweepResult, err error) {
	ctx, done := s.observe(ctx, "expire_due")
	defer func() { done(err) }()

	var errs []error
	if n, err := s.store.ExpireStandard(ctx, now); err != nil {
		errs = append(errs, fmt.Errorf("expire standard grants: %w", err))
	} else {
		result.ExpiredStandard = n
	}
	if n, err := s.store.ExpireEmergency(ctx, now); err != nil {
		errs = append(errs, fmt.Errorf("expire emergency grants: %w", err))
	} else {
		result.ExpiredEmergency = n
	}
	if s.expirePending {
		if n, err := s.store.ExpirePendingStandard(ctx, now); err != nil {
			errs = append(errs, fmt.Errorf("expire pending grants: %w", err))
		} else {
			result.ExpiredPending = n
		}
	}
	return result, errors.Join(errs...)
}
