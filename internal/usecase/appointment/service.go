package appointment

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/metrics"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timerange"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
	"github.com/BruksfildServices01/care-scheduler/internal/tracer"
)

// ======================================================
// COLLABORATORS
// ======================================================

type Auditor interface {
	Dispatch(ev audit.Event)
}

// SlotCache keeps computed free slots per provider and calendar day. Get
// reports the day's generation even on a miss; Set stores under that
// generation, so slots computed before an Invalidate are never served after
// it.
type SlotCache interface {
	Get(ctx context.Context, providerID uint, day time.Time) (slots []timerange.Range, gen int64, ok bool, err error)
	Set(ctx context.Context, providerID uint, day time.Time, gen int64, slots []timerange.Range) error
	Invalidate(ctx context.Context, providerID uint, days []time.Time) error
}

type Deps struct {
	Appointments domain.Repository
	Catalog      domain.ServiceCatalog
	Ratings      domain.RatingStore
	Tx           domain.Transactor
	Clock        timezone.Clock
	Policy       domain.Policy
	Cache        SlotCache
	Audit        Auditor
	Log          *zap.Logger
	Metrics      *metrics.Collector
}

// ======================================================
// SERVICE
// ======================================================

// Service is the scheduling engine. Every write that depends on the
// provider's calendar or rating runs inside Tx.WithinProvider.
type Service struct {
	repo    domain.Repository
	catalog domain.ServiceCatalog
	ratings domain.RatingStore
	tx      domain.Transactor
	clock   timezone.Clock
	policy  domain.Policy
	cache   SlotCache
	audit   Auditor
	log     *zap.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer
}

func NewService(d Deps) *Service {
	return &Service{
		repo:    d.Appointments,
		catalog: d.Catalog,
		ratings: d.Ratings,
		tx:      d.Tx,
		clock:   d.Clock,
		policy:  d.Policy,
		cache:   d.Cache,
		audit:   d.Audit,
		log:     d.Log,
		metrics: d.Metrics,
		tracer:  otel.Tracer(tracer.InstrumentationName),
	}
}

// ======================================================
// HELPERS
// ======================================================

func (s *Service) location() *time.Location {
	return s.clock.Location()
}

// checkConflict fails with a conflict error listing every confirmed
// appointment that overlaps ap, ignoring excludeID. The rows are only
// loaded once the count says there is something to report.
func (s *Service) checkConflict(
	ctx context.Context,
	repo domain.Repository,
	ap *models.Appointment,
	excludeID uint,
) error {
	found, err := repo.HasConflict(ctx, ap.ProviderID, ap.ScheduledAt, ap.EndTime, excludeID)
	if err != nil || !found {
		return err
	}

	conflicts, err := repo.FindConflicts(ctx, ap.ProviderID, ap.ScheduledAt, ap.EndTime, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		return nil
	}

	ids := make([]uint, len(conflicts))
	for i, c := range conflicts {
		ids[i] = c.ID
	}
	return httperr.Conflict(ids)
}

// invalidate drops cached slots for every day the ranges touch. Cache
// failures are logged only.
func (s *Service) invalidate(ctx context.Context, providerID uint, ranges ...timerange.Range) {
	var days []time.Time
	for _, r := range ranges {
		days = append(days, r.Days(s.location())...)
	}
	if len(days) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, providerID, days); err != nil {
		s.log.Warn("slot cache invalidation failed",
			zap.Uint("provider_id", providerID),
			zap.Error(err),
		)
	}
}

func (s *Service) event(ctx context.Context, providerID uint, entityID uint, action string, metadata any) audit.Event {
	actor, _ := ActorFrom(ctx)

	ev := audit.Event{
		ProviderID: providerID,
		ActorRole:  actor.Role,
		Action:     action,
		Entity:     "appointment",
		RequestID:  actor.RequestID,
		Metadata:   metadata,
	}
	if actor.ID != 0 {
		id := actor.ID
		ev.ActorID = &id
	}
	if entityID != 0 {
		ev.EntityID = &entityID
	}
	return ev
}

func (s *Service) record(ctx context.Context, ap *models.Appointment, action string, metadata any) {
	s.audit.Dispatch(s.event(ctx, ap.ProviderID, ap.ID, action, metadata))
}

// recordConflict counts and audits a write refused by overlapping confirmed
// appointments. Other errors are ignored.
func (s *Service) recordConflict(ctx context.Context, ap *models.Appointment, operation string, err error) {
	var be httperr.BusinessError
	if !errors.As(err, &be) || be.Kind != httperr.KindConflict {
		return
	}

	s.metrics.Conflicts.WithLabelValues(operation).Inc()
	s.log.Info("write rejected by conflict",
		zap.String("operation", operation),
		zap.Uint("provider_id", ap.ProviderID),
		zap.Uint("appointment_id", ap.ID),
		zap.Time("start", ap.ScheduledAt),
		zap.Uints("conflict_ids", be.ConflictIDs),
	)
	s.audit.Dispatch(s.event(ctx, ap.ProviderID, ap.ID, "appointment.conflict_rejected", map[string]any{
		"operation":    operation,
		"conflict_ids": be.ConflictIDs,
	}))
}

func rangeOf(ap *models.Appointment) timerange.Range {
	return timerange.New(ap.ScheduledAt, ap.EndTime)
}
