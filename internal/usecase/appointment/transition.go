package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// guardFunc runs under the provider lock before the transition is applied.
type guardFunc func(ap *models.Appointment, now time.Time) error

// changeStatus moves one appointment to target. The row is re-read under the
// provider lock and persisted with a compare-and-set on its previous status,
// so a failed call leaves it unchanged.
func (s *Service) changeStatus(
	ctx context.Context,
	id uint,
	target domain.Status,
	reason string,
	guard guardFunc,
) (*models.Appointment, error) {

	ap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var (
		updated *models.Appointment
		from    domain.Status
	)

	err = s.tx.WithinProvider(ctx, ap.ProviderID, func(st domain.Stores) error {
		cur, err := st.Appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from = domain.Status(cur.Status)

		if guard != nil {
			if err := guard(cur, now); err != nil {
				return err
			}
		}
		if err := s.applyTransition(ctx, st.Appointments, cur, target, reason, now); err != nil {
			return err
		}
		if err := st.Appointments.UpdateStatus(ctx, cur, from); err != nil {
			return err
		}

		updated = cur
		return nil
	})
	if err != nil {
		s.recordConflict(ctx, ap, string(target), err)
		return nil, err
	}

	s.metrics.Transitions.WithLabelValues(string(target)).Inc()

	if target == domain.StatusApproved || (target == domain.StatusCancelled && from.IsConfirmed()) {
		s.invalidate(ctx, updated.ProviderID, rangeOf(updated))
	}

	s.record(ctx, updated, "appointment."+string(target), map[string]any{
		"from": string(from),
		"to":   string(target),
	})

	return updated, nil
}

// applyTransition mutates ap in memory. Approval additionally re-checks the
// calendar, excluding the appointment itself.
func (s *Service) applyTransition(
	ctx context.Context,
	repo domain.Repository,
	ap *models.Appointment,
	target domain.Status,
	reason string,
	now time.Time,
) error {
	switch target {
	case domain.StatusApproved:
		if err := domain.Approve(ap); err != nil {
			return err
		}
		return s.checkConflict(ctx, repo, ap, ap.ID)
	case domain.StatusRejected:
		return domain.Reject(ap, reason)
	case domain.StatusCancelled:
		return domain.Cancel(ap, now, reason)
	case domain.StatusCompleted:
		return domain.Complete(ap, now)
	default:
		return domain.CheckTransition(domain.Status(ap.Status), target)
	}
}
