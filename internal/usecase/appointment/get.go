package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func (s *Service) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// GetForMember returns the appointment only if memberID owns it.
func (s *Service) GetForMember(ctx context.Context, id, memberID uint) (*models.Appointment, error) {
	ap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsOwnedBy(ap, memberID) {
		return nil, httperr.Forbidden("not_owner", "appointment belongs to another member")
	}
	return ap, nil
}
