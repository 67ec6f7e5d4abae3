package repositories

import (
	"context"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContactRepo interface {
	Upsert(ctx context.Context, tenantID uuid.UUID, phone, name string, at time.Time) (*models.Contact, error)
	SetBirthDate(ctx context.Context, id uuid.UUID, birthDate time.Time) error
	ListWithBirthDate(ctx context.Context, tenantID uuid.UUID) ([]models.Contact, error)
}

type contactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) ContactRepo {
	return &contactRepo{db: db}
}

// Upsert creates the contact on first sight or stamps last_message_at on an
// existing one. The name is only captured at creation. Concurrent callers for
// the same (tenant, phone) converge on one row through the unique index.
func (r *contactRepo) Upsert(ctx context.Context, tenantID uuid.UUID, phone, name string, at time.Time) (*models.Contact, error) {
	db := r.db.WithContext(ctx)

	contact := models.Contact{
		TenantID:      tenantID,
		Phone:         phone,
		Name:          name,
		LastMessageAt: at,
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "phone"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "last_message_at"}, Value: at},
			{Column: clause.Column{Name: "updated_at"}, Value: at},
		},
	}).Create(&contact).Error
	if err != nil {
		return nil, err
	}

	var stored models.Contact
	if err := db.Where("tenant_id = ? AND phone = ?", tenantID, phone).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *contactRepo) SetBirthDate(ctx context.Context, id uuid.UUID, birthDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ?", id).
		Update("birth_date", birthDate).Error
}

func (r *contactRepo) ListWithBirthDate(ctx context.Context, tenantID uuid.UUID) ([]models.Contact, error) {
	var contacts []models.Contact
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND birth_date IS NOT NULL", tenantID).
		Find(&contacts).Error
	return contacts, err
}
