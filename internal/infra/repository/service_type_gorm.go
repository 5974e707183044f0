package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type ServiceTypeGormRepository struct {
	db *gorm.DB
}

func NewServiceTypeGormRepository(db *gorm.DB) *ServiceTypeGormRepository {
	return &ServiceTypeGormRepository{db: db}
}

func (r *ServiceTypeGormRepository) GetServiceType(
	ctx context.Context,
	id uint,
) (*models.ServiceType, error) {

	var st models.ServiceType
	if err := r.db.WithContext(ctx).First(&st, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("service_type_not_found", "service type %d not found", id)
		}
		return nil, err
	}
	return &st, nil
}

func (r *ServiceTypeGormRepository) ListActive(ctx context.Context) ([]models.ServiceType, error) {
	var list []models.ServiceType
	if err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

var _ domain.ServiceCatalog = (*ServiceTypeGormRepository)(nil)
