package repositories

import (
	"context"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepo reads a tenant's service catalog.
type CatalogRepo interface {
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.Service, error)
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepo {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("name ASC").
		Find(&services).Error
	return services, err
}
