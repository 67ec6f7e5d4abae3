package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BirthdaySendLog records that a birthday greeting went out to a contact in a
// given year. One row per (tenant, contact, year).
type BirthdaySendLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_birthday_send_once,priority:1" json:"tenant_id"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_birthday_send_once,priority:2" json:"contact_id"`
	Year      int       `gorm:"not null;uniqueIndex:idx_birthday_send_once,priority:3" json:"year"`
	SentAt    time.Time `gorm:"not null" json:"sent_at"`
}

func (BirthdaySendLog) TableName() string {
	return "birthday_send_logs"
}

func (l *BirthdaySendLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
