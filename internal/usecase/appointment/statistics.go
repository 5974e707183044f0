package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
)

const maxCountRange = 366 * 24 * time.Hour

type Statistics struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	Blocked        int64            `json:"blocked"`
	MemberBookings int64            `json:"member_bookings"`
	Rated          int64            `json:"rated"`
	AverageScore   float64          `json:"average_score"`
	Revenue        float64          `json:"revenue"`
}

// Statistics aggregates appointments of an optional provider and period.
// Revenue only counts completed appointments.
func (s *Service) Statistics(ctx context.Context, f domain.StatsFilter) (*Statistics, error) {
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, httperr.Validation("invalid_time_range", "from must be before to")
	}

	groups, err := s.repo.CountByStatus(ctx, f)
	if err != nil {
		return nil, err
	}
	ratings, err := s.repo.SummarizeRatings(ctx, f)
	if err != nil {
		return nil, err
	}

	out := &Statistics{ByStatus: make(map[string]int64, len(domain.AllStatuses))}
	for _, st := range domain.AllStatuses {
		out.ByStatus[string(st)] = 0
	}

	var revenue float64
	for _, g := range groups {
		out.Total += g.Count
		out.ByStatus[g.Status] += g.Count
		if g.Blocked {
			out.Blocked += g.Count
		} else {
			out.MemberBookings += g.Count
		}
		if domain.Status(g.Status) == domain.StatusCompleted {
			revenue += g.Revenue
		}
	}

	out.Revenue = domain.RoundHalfUp(revenue, 2)
	out.Rated = ratings.Count
	out.AverageScore = domain.AverageRating(ratings.Points, ratings.Count)

	return out, nil
}

// CountsByDay returns the number of pending or confirmed appointments per
// calendar day of the provider in [from, to).
func (s *Service) CountsByDay(ctx context.Context, providerID uint, from, to time.Time) ([]domain.DayCount, error) {
	if providerID == 0 {
		return nil, httperr.Validation("provider_required", "provider id is required")
	}
	if !from.Before(to) {
		return nil, httperr.Validation("invalid_time_range", "from must be before to")
	}
	if to.Sub(from) > maxCountRange {
		return nil, httperr.Validation("range_too_long", "range must not exceed one year")
	}

	days, err := s.repo.CountByDay(ctx, providerID, from, to, s.location())
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []domain.DayCount{}
	}
	return days, nil
}
