package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// Cancel moves a pending or approved appointment to cancelled. When
// byOwnerMemberID is set the caller is that member: they must own the
// booking and it must start at least the cancellation window from now.
// Staff pass nil and are not bound by the window.
func (s *Service) Cancel(
	ctx context.Context,
	id uint,
	reason string,
	byOwnerMemberID *uint,
) (*models.Appointment, error) {

	var guard guardFunc
	if byOwnerMemberID != nil {
		memberID := *byOwnerMemberID
		guard = func(ap *models.Appointment, now time.Time) error {
			if !domain.IsOwnedBy(ap, memberID) {
				return httperr.Forbidden("not_owner", "appointment belongs to another member")
			}
			if err := domain.CheckTransition(domain.Status(ap.Status), domain.StatusCancelled); err != nil {
				return err
			}
			return domain.CheckCancellationWindow(ap, now, s.policy.CancelWindow)
		}
	}

	return s.changeStatus(ctx, id, domain.StatusCancelled, reason, guard)
}
