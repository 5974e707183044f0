package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// overlapClause is the half-open overlap test of a stored row against
// [start, end). Arguments are end then start.
const overlapClause = "scheduled_at < ? AND end_time > ?"

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// mapWriteError turns a violated exclusion constraint into the conflict the
// service would have reported itself.
func mapWriteError(err error) error {
	if httperr.IsExclusionConflict(err) {
		return httperr.Conflict(nil)
	}
	return err
}

// --------------------------------------------------
// Appointment (create / read)
// --------------------------------------------------

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapWriteError(r.db.WithContext(ctx).Create(ap).Error)
}

func (r *AppointmentGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("appointment_not_found", "appointment %d not found", id)
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) List(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if f.ProviderID != nil {
		q = q.Where("provider_id = ?", *f.ProviderID)
	}
	if f.MemberID != nil {
		q = q.Where("member_id = ?", *f.MemberID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.Blocked != nil {
		q = q.Where("is_blocked = ?", *f.Blocked)
	}
	if f.From != nil {
		q = q.Where("scheduled_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("scheduled_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Appointment
	if err := q.
		Order("scheduled_at ASC, id ASC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// --------------------------------------------------
// Appointment (changes)
// --------------------------------------------------

func (r *AppointmentGormRepository) UpdateDetails(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", ap.ID).
		Updates(map[string]any{
			"scheduled_at":     ap.ScheduledAt,
			"end_time":         ap.EndTime,
			"service_type_id":  ap.ServiceTypeID,
			"total_amount":     ap.TotalAmount,
			"service_location": ap.ServiceLocation,
			"notes":            ap.Notes,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return mapWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("appointment_not_found", "appointment %d not found", ap.ID)
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateStatus(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, string(from)).
		Updates(map[string]any{
			"status":       ap.Status,
			"notes":        ap.Notes,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return mapWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.InvalidTransition(string(from), ap.Status)
	}
	return nil
}

func (r *AppointmentGormRepository) SaveRating(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ? AND is_rated = false", ap.ID, string(domain.StatusCompleted)).
		Updates(map[string]any{
			"is_rated":       true,
			"rating_score":   ap.RatingScore,
			"rating_comment": ap.RatingComment,
			"rated_at":       ap.RatedAt,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.InvalidState("already_rated", "appointment already rated or not completed")
	}
	return nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *AppointmentGormRepository) confirmedOverlapping(
	ctx context.Context,
	providerID uint,
	start time.Time,
	end time.Time,
) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("provider_id = ? AND status IN ?", providerID, domain.ConfirmedStatusValues()).
		Where(overlapClause, end, start)
}

func (r *AppointmentGormRepository) FindConflicts(
	ctx context.Context,
	providerID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) ([]models.Appointment, error) {

	q := r.confirmedOverlapping(ctx, providerID, start, end)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var apps []models.Appointment
	if err := q.Order("scheduled_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) HasConflict(
	ctx context.Context,
	providerID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (bool, error) {

	q := r.confirmedOverlapping(ctx, providerID, start, end)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AppointmentGormRepository) ListConfirmedBetween(
	ctx context.Context,
	providerID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.confirmedOverlapping(ctx, providerID, from, to).
		Select("id", "scheduled_at", "end_time", "status").
		Order("scheduled_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Statistics
// --------------------------------------------------

func (r *AppointmentGormRepository) statsScope(ctx context.Context, f domain.StatsFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Appointment{})
	if f.ProviderID != nil {
		q = q.Where("provider_id = ?", *f.ProviderID)
	}
	if f.From != nil {
		q = q.Where("scheduled_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("scheduled_at < ?", *f.To)
	}
	return q
}

func (r *AppointmentGormRepository) CountByStatus(
	ctx context.Context,
	f domain.StatsFilter,
) ([]domain.StatusCount, error) {

	var rows []domain.StatusCount
	if err := r.statsScope(ctx, f).
		Select("status, is_blocked AS blocked, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("status, is_blocked").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentGormRepository) SummarizeRatings(
	ctx context.Context,
	f domain.StatsFilter,
) (domain.RatingSummary, error) {

	var sum domain.RatingSummary
	err := r.statsScope(ctx, f).
		Select("COUNT(*) AS count, COALESCE(SUM(rating_score), 0) AS points").
		Where("is_rated = true").
		Scan(&sum).Error
	return sum, err
}

func (r *AppointmentGormRepository) CountByDay(
	ctx context.Context,
	providerID uint,
	from time.Time,
	to time.Time,
	loc *time.Location,
) ([]domain.DayCount, error) {

	var rows []struct {
		Day   time.Time
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("date_trunc('day', scheduled_at AT TIME ZONE ?) AS day, COUNT(*) AS count", loc.String()).
		Where("provider_id = ? AND scheduled_at >= ? AND scheduled_at < ?", providerID, from, to).
		Where("status NOT IN ?", []string{string(domain.StatusCancelled), string(domain.StatusRejected)}).
		Group("1").
		Order("1").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.DayCount, len(rows))
	for i, row := range rows {
		// date_trunc yields a zone-less local midnight
		d := row.Day
		out[i] = domain.DayCount{
			Day:   time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc),
			Count: row.Count,
		}
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
