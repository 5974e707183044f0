package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	ProviderID uint
	Start      time.Time
	End        time.Time

	// Creator is domain.Member for bookings or domain.StaffBlock for
	// provider time blocked out by staff.
	Creator domain.Creator

	ServiceTypeID   *uint
	ServiceLocation string
	Notes           string
}

// ======================================================
// EXECUTE
// ======================================================

// Create validates everything before writing. Staff blocks enter approved
// and are conflict-checked under the provider lock; member bookings enter
// pending without a conflict check.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Request
	// --------------------------------------------------
	if in.ProviderID == 0 {
		return nil, httperr.Validation("provider_required", "provider id is required")
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return nil, httperr.Validation("missing_time", "start and end time are required")
	}
	if !in.Start.Before(in.End) {
		return nil, httperr.Validation("invalid_time_range", "start must be before end")
	}
	if in.Start.Before(s.clock.Now()) {
		return nil, httperr.Validation("in_the_past", "start time is in the past")
	}

	ap := &models.Appointment{
		ProviderID:      in.ProviderID,
		ScheduledAt:     in.Start,
		EndTime:         in.End,
		ServiceLocation: strings.TrimSpace(in.ServiceLocation),
		Notes:           strings.TrimSpace(in.Notes),
	}

	// --------------------------------------------------
	// 2. Creator
	// --------------------------------------------------
	if err := domain.ApplyCreator(ap, in.Creator); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Pricing
	// --------------------------------------------------
	if in.ServiceTypeID != nil {
		amount, err := s.QuotePrice(ctx, *in.ServiceTypeID, in.Start, in.End)
		if err != nil {
			return nil, err
		}
		stID := *in.ServiceTypeID
		ap.ServiceTypeID = &stID
		ap.TotalAmount = &amount
	}

	// --------------------------------------------------
	// 4. Persist
	// --------------------------------------------------
	status := domain.InitialStatus(in.Creator)
	ap.Status = string(status)

	if status.IsConfirmed() {
		err := s.tx.WithinProvider(ctx, ap.ProviderID, func(st domain.Stores) error {
			if err := s.checkConflict(ctx, st.Appointments, ap, 0); err != nil {
				return err
			}
			return st.Appointments.Create(ctx, ap)
		})
		if err != nil {
			s.recordConflict(ctx, ap, "create", err)
			return nil, err
		}
		s.invalidate(ctx, ap.ProviderID, rangeOf(ap))
	} else {
		if err := s.repo.Create(ctx, ap); err != nil {
			return nil, err
		}
	}

	creator := "member"
	if ap.IsBlocked {
		creator = "staff_block"
	}
	s.metrics.AppointmentsCreated.WithLabelValues(creator).Inc()

	s.record(ctx, ap, "appointment.created", map[string]any{
		"status":  ap.Status,
		"creator": creator,
	})

	return ap, nil
}
