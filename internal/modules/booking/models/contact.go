package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is an end customer of a tenant, identified by phone number.
type Contact struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_contacts_tenant_phone,priority:1" json:"tenant_id"`
	Phone         string     `gorm:"type:text;not null;uniqueIndex:idx_contacts_tenant_phone,priority:2" json:"phone"`
	Name          string     `gorm:"type:text" json:"name"`
	BirthDate     *time.Time `gorm:"type:date" json:"birth_date"`
	LastMessageAt time.Time  `json:"last_message_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DisplayName returns the contact name or the generic "Cliente".
func (c *Contact) DisplayName() string {
	if strings.TrimSpace(c.Name) == "" {
		return "Cliente"
	}
	return c.Name
}

// HasBirthdayOn compares month and day only.
func (c *Contact) HasBirthdayOn(day time.Time) bool {
	if c.BirthDate == nil {
		return false
	}
	return c.BirthDate.Month() == day.Month() && c.BirthDate.Day() == day.Day()
}
