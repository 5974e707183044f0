package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// Approve confirms a pending member booking. On conflict the booking stays
// pending.
func (s *Service) Approve(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.changeStatus(ctx, id, domain.StatusApproved, "", nil)
}
