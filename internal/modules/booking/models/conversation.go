package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation status constants
const (
	ConversationStatusActive = "active"
	ConversationStatusClosed = "closed"
)

// PreviewLength is the number of characters kept in LastMessagePreview.
const PreviewLength = 100

// Conversation is the message thread between a tenant and a contact. The
// partial unique index keeps at most one active row per contact.
type Conversation struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_active,priority:1,where:status = 'active'" json:"tenant_id"`
	ContactID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_active,priority:2,where:status = 'active'" json:"contact_id"`
	Status             string    `gorm:"type:text;not null;default:'active'" json:"status"`
	LastMessagePreview string    `gorm:"type:text" json:"last_message_preview"`
	LastMessageAt      time.Time `json:"last_message_at"`
	UnreadCount        int       `gorm:"not null;default:0" json:"unread_count"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
