package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type RatingGormRepository struct {
	db *gorm.DB
}

func NewRatingGormRepository(db *gorm.DB) *RatingGormRepository {
	return &RatingGormRepository{db: db}
}

// IncrementRating is one upsert statement: the counters are incremented and
// the average recomputed by the database, never from values read earlier.
func (r *RatingGormRepository) IncrementRating(
	ctx context.Context,
	providerID uint,
	score int,
) error {

	row := models.ProviderRating{
		ProviderID:    providerID,
		TotalRatings:  1,
		TotalPoints:   int64(score),
		AverageRating: float64(score),
		UpdatedAt:     time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_ratings": gorm.Expr("provider_ratings.total_ratings + 1"),
				"total_points":  gorm.Expr("provider_ratings.total_points + ?", score),
				"average_rating": gorm.Expr(
					"ROUND((provider_ratings.total_points + ?)::numeric / (provider_ratings.total_ratings + 1), 2)",
					score,
				),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(&row).Error
}

// GetRating returns zero counters for providers nobody has rated yet.
func (r *RatingGormRepository) GetRating(
	ctx context.Context,
	providerID uint,
) (*models.ProviderRating, error) {

	var pr models.ProviderRating
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		First(&pr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ProviderRating{ProviderID: providerID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

var _ domain.RatingStore = (*RatingGormRepository)(nil)
