package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func (s *Service) Reject(ctx context.Context, id uint, reason string) (*models.Appointment, error) {
	return s.changeStatus(ctx, id, domain.StatusRejected, reason, nil)
}
