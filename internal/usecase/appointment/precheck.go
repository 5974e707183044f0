package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
)

// PreCheckAvailability evaluates a booking request without writing
// anything. The first failing rule decides the reason; the calendar is only
// consulted when every static rule passes.
func (s *Service) PreCheckAvailability(
	ctx context.Context,
	providerID uint,
	start, end time.Time,
) (domain.AvailabilityResult, error) {

	if providerID == 0 {
		return domain.AvailabilityResult{}, httperr.Validation("provider_required", "provider id is required")
	}

	if res, ok := domain.CheckRequestWindow(s.policy, start, end, s.clock.Now(), s.location()); !ok {
		return res, nil
	}

	conflicts, err := s.repo.FindConflicts(ctx, providerID, start, end, 0)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}
	if len(conflicts) > 0 {
		return domain.AvailabilityResult{
			Available: false,
			Code:      "time_conflict",
			Reason:    "the provider already has a confirmed appointment in this period",
			Conflicts: conflicts,
		}, nil
	}

	return domain.AvailabilityResult{Available: true, Reason: "available"}, nil
}
