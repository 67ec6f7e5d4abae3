package repositories

import (
	"context"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BirthdayLogRepo interface {
	// Reserve claims the (tenant, contact, year) slot. It reports false when
	// another run already holds it.
	Reserve(ctx context.Context, tenantID, contactID uuid.UUID, year int, sentAt time.Time) (bool, error)
	Release(ctx context.Context, tenantID, contactID uuid.UUID, year int) error
}

type birthdayLogRepo struct {
	db *gorm.DB
}

func NewBirthdayLogRepo(db *gorm.DB) BirthdayLogRepo {
	return &birthdayLogRepo{db: db}
}

func (r *birthdayLogRepo) Reserve(ctx context.Context, tenantID, contactID uuid.UUID, year int, sentAt time.Time) (bool, error) {
	entry := models.BirthdaySendLog{
		TenantID:  tenantID,
		ContactID: contactID,
		Year:      year,
		SentAt:    sentAt,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *birthdayLogRepo) Release(ctx context.Context, tenantID, contactID uuid.UUID, year int) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND contact_id = ? AND year = ?", tenantID, contactID, year).
		Delete(&models.BirthdaySendLog{}).Error
}
