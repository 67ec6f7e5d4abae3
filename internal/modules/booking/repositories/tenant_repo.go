package repositories

import (
	"context"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*models.Tenant, error)
	ListBirthdayEnabled(ctx context.Context) ([]models.Tenant, error)
}

type tenantRepo struct {
	db *gorm.DB
}

func NewTenantRepo(db *gorm.DB) TenantRepo {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepo) GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).
		Where("whatsapp_phone_number_id = ?", phoneNumberID).
		First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// ListBirthdayEnabled returns tenants with the birthday feature on and
// complete gateway credentials.
func (r *tenantRepo) ListBirthdayEnabled(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.WithContext(ctx).
		Where("birthday_enabled = ?", true).
		Where("whatsapp_phone_number_id <> '' AND whatsapp_access_token <> ''").
		Find(&tenants).Error
	return tenants, err
}
