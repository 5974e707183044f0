package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
)

// QuotePrice previews the amount a booking would cost. Nothing is written.
func (s *Service) QuotePrice(ctx context.Context, serviceTypeID uint, start, end time.Time) (float64, error) {
	st, err := s.catalog.GetServiceType(ctx, serviceTypeID)
	if err != nil {
		return 0, err
	}
	return domain.Price(st, start, end)
}
