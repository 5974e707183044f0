package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
)

// AvailableActions lists what memberID may do with the appointment next.
func (s *Service) AvailableActions(ctx context.Context, id, memberID uint) ([]domain.Action, error) {
	ap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsOwnedBy(ap, memberID) {
		return nil, httperr.Forbidden("not_owner", "appointment belongs to another member")
	}

	untilStart := ap.ScheduledAt.Sub(s.clock.Now())
	return domain.AvailableActions(domain.Status(ap.Status), ap.IsRated, untilStart, s.policy.CancelWindow), nil
}
