package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"

	MessageTypeText = "text"

	MessageStatusReceived = "received"
	MessageStatusSent     = "sent"
)

// Message is an append-only entry of a conversation log.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_messages_external,priority:1,where:external_id <> ''" json:"tenant_id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation_created,priority:1" json:"conversation_id"`
	Direction      string    `gorm:"type:text;not null" json:"direction"`
	Content        *string   `gorm:"type:text" json:"content"`
	MessageType    string    `gorm:"type:text;not null;default:'text'" json:"message_type"`
	IsBotResponse  bool      `gorm:"not null;default:false" json:"is_bot_response"`
	Status         string    `gorm:"type:text" json:"status"`
	ExternalID     string    `gorm:"type:text;uniqueIndex:idx_messages_external,priority:2,where:external_id <> ''" json:"external_id"`
	CreatedAt      time.Time `gorm:"index:idx_messages_conversation_created,priority:2" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return nil
}

// Text returns the content or an empty string for non-text messages.
func (m *Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}
