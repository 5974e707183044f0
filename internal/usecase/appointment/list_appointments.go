package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListResult struct {
	Items    []models.Appointment
	Total    int64
	Page     int
	PageSize int
}

// NormalizePage applies paging defaults and caps the page size.
func NormalizePage(f *domain.ListFilter) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

func (s *Service) List(ctx context.Context, f domain.ListFilter) (*ListResult, error) {
	if f.Status != nil && !f.Status.IsValid() {
		return nil, httperr.Validation("invalid_status", "unknown status %q", *f.Status)
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, httperr.Validation("invalid_time_range", "from must be before to")
	}
	NormalizePage(&f)

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Appointment{}
	}

	return &ListResult{
		Items:    items,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}
