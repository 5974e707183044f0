package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// AddRating stores the single rating of a completed appointment and adds it
// to the provider's aggregate in the same transaction. If either write fails
// neither is kept.
func (s *Service) AddRating(
	ctx context.Context,
	id uint,
	score int,
	comment string,
	byOwnerMemberID *uint,
) (*models.Appointment, error) {

	if err := domain.CheckScore(score); err != nil {
		return nil, err
	}

	ap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var rated *models.Appointment

	err = s.tx.WithinProvider(ctx, ap.ProviderID, func(st domain.Stores) error {
		cur, err := st.Appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if byOwnerMemberID != nil && !domain.IsOwnedBy(cur, *byOwnerMemberID) {
			return httperr.Forbidden("not_owner", "appointment belongs to another member")
		}

		if err := domain.Rate(cur, score, comment, now); err != nil {
			return err
		}
		if err := st.Appointments.SaveRating(ctx, cur); err != nil {
			return err
		}
		if err := st.Ratings.IncrementRating(ctx, cur.ProviderID, score); err != nil {
			return err
		}

		rated = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RatingsTotal.Inc()
	s.record(ctx, rated, "appointment.rated", map[string]any{"score": score})

	return rated, nil
}

func (s *Service) ProviderRating(ctx context.Context, providerID uint) (*models.ProviderRating, error) {
	return s.ratings.GetRating(ctx, providerID)
}
