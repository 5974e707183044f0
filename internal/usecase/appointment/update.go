package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timerange"
)

// UpdateInput holds the fields to change. Nil means unchanged.
type UpdateInput struct {
	Start           *time.Time
	End             *time.Time
	ServiceTypeID   *uint
	ServiceLocation *string
	Notes           *string
}

func (in UpdateInput) empty() bool {
	return in.Start == nil && in.End == nil && in.ServiceTypeID == nil &&
		in.ServiceLocation == nil && in.Notes == nil
}

func (in UpdateInput) onlyNotes() bool {
	return in.Start == nil && in.End == nil && in.ServiceTypeID == nil && in.ServiceLocation == nil
}

// Update changes the editable fields. Finished appointments only accept
// notes. Moving a confirmed appointment re-checks the calendar excluding
// itself, and the price follows the new times or service type.
func (s *Service) Update(ctx context.Context, id uint, in UpdateInput) (*models.Appointment, error) {
	if in.empty() {
		return nil, httperr.Validation("nothing_to_update", "no fields to update")
	}

	ap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var (
		updated  *models.Appointment
		oldRange timerange.Range
		moved    bool
	)

	err = s.tx.WithinProvider(ctx, ap.ProviderID, func(st domain.Stores) error {
		cur, err := st.Appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		status := domain.Status(cur.Status)

		if status.IsTerminal() && !in.onlyNotes() {
			return httperr.InvalidState("appointment_finished", "only notes can change once an appointment is %s", status)
		}

		oldRange = rangeOf(cur)

		start, end := cur.ScheduledAt, cur.EndTime
		if in.Start != nil {
			start = *in.Start
		}
		if in.End != nil {
			end = *in.End
		}
		moved = !start.Equal(cur.ScheduledAt) || !end.Equal(cur.EndTime)

		if moved {
			if !start.Before(end) {
				return httperr.Validation("invalid_time_range", "start must be before end")
			}
			if start.Before(now) {
				return httperr.Validation("in_the_past", "start time is in the past")
			}
			cur.ScheduledAt, cur.EndTime = start, end
		}

		repriced := moved
		if in.ServiceTypeID != nil {
			stID := *in.ServiceTypeID
			cur.ServiceTypeID = &stID
			repriced = true
		}
		if repriced && cur.ServiceTypeID != nil {
			amount, err := s.QuotePrice(ctx, *cur.ServiceTypeID, cur.ScheduledAt, cur.EndTime)
			if err != nil {
				return err
			}
			cur.TotalAmount = &amount
		}

		if in.ServiceLocation != nil {
			cur.ServiceLocation = strings.TrimSpace(*in.ServiceLocation)
		}
		if in.Notes != nil {
			cur.Notes = strings.TrimSpace(*in.Notes)
		}

		if moved && status.IsConfirmed() {
			if err := s.checkConflict(ctx, st.Appointments, cur, cur.ID); err != nil {
				return err
			}
		}

		if err := st.Appointments.UpdateDetails(ctx, cur); err != nil {
			return err
		}
		updated = cur
		return nil
	})
	if err != nil {
		s.recordConflict(ctx, ap, "update", err)
		return nil, err
	}

	if moved && domain.Status(updated.Status).IsConfirmed() {
		s.invalidate(ctx, updated.ProviderID, oldRange, rangeOf(updated))
	}

	s.record(ctx, updated, "appointment.updated", map[string]any{"rescheduled": moved})

	return updated, nil
}
