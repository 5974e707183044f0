package appointment

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

// AvailableSlots returns the free intervals of the provider on date. Past
// dates are the caller's concern. Only days other than today are cached,
// since today's window moves with the clock. The cache generation is read
// before the calendar query.
func (s *Service) AvailableSlots(
	ctx context.Context,
	providerID uint,
	date time.Time,
) ([]domain.TimeSlot, error) {

	if providerID == 0 {
		return nil, httperr.Validation("provider_required", "provider id is required")
	}

	ctx, span := s.tracer.Start(ctx, "appointment.AvailableSlots")
	defer span.End()

	loc := s.location()
	now := s.clock.Now()
	day := timezone.StartOfDay(date, loc)
	cacheable := !timezone.SameDay(day, now, loc)

	span.SetAttributes(
		attribute.Int64("provider.id", int64(providerID)),
		attribute.String("date", day.Format("2006-01-02")),
	)

	var gen int64
	if cacheable {
		slots, g, ok, err := s.cache.Get(ctx, providerID, day)
		if err != nil {
			s.log.Warn("slot cache read failed", zap.Uint("provider_id", providerID), zap.Error(err))
			// Without the generation a write could outlive an invalidation.
			cacheable = false
		}
		gen = g
		if ok {
			s.metrics.SlotCacheHits.Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return slots, nil
		}
		s.metrics.SlotCacheMisses.Inc()
	}

	window, ok := domain.SlotWindow(s.policy, day, now, loc)
	if !ok {
		return []domain.TimeSlot{}, nil
	}

	booked, err := s.repo.ListConfirmedBetween(ctx, providerID, window.Start, window.End)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	slots := domain.FreeSlots(window, domain.Ranges(booked), s.policy.MinSlot)

	if cacheable {
		if err := s.cache.Set(ctx, providerID, day, gen, slots); err != nil {
			s.log.Warn("slot cache write failed", zap.Uint("provider_id", providerID), zap.Error(err))
		}
	}

	return slots, nil
}
