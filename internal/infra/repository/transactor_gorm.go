package repository

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/tracer"
)

// GormTransactor serializes writers of one provider with a transaction-scoped
// advisory lock. The lock is released on commit or rollback.
type GormTransactor struct {
	db      *gorm.DB
	timeout time.Duration
	tracer  trace.Tracer
}

func NewGormTransactor(db *gorm.DB, timeout time.Duration) *GormTransactor {
	return &GormTransactor{
		db:      db,
		timeout: timeout,
		tracer:  otel.Tracer(tracer.InstrumentationName),
	}
}

func (t *GormTransactor) WithinProvider(
	ctx context.Context,
	providerID uint,
	fn func(s domain.Stores) error,
) error {

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	ctx, span := t.tracer.Start(ctx, "db.WithinProvider",
		trace.WithAttributes(attribute.Int64("provider.id", int64(providerID))),
	)
	defer span.End()

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(hashtext(?))",
			fmt.Sprintf("provider:%d", providerID),
		).Error; err != nil {
			return fmt.Errorf("locking provider %d: %w", providerID, err)
		}

		return fn(domain.Stores{
			Appointments: NewAppointmentGormRepository(tx),
			Ratings:      NewRatingGormRepository(tx),
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

var _ domain.Transactor = (*GormTransactor)(nil)
