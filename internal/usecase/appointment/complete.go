package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func (s *Service) Complete(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.changeStatus(ctx, id, domain.StatusCompleted, "", nil)
}
