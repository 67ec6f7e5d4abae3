package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actions recorded by the booking bot.
const (
	ActionAppointmentCreate   = "appointment.create"
	ActionAppointmentRejected = "appointment.rejected"
	ActionContactBirthDate    = "contact.birth_date"
	ActionBirthdaySent        = "birthday.sent"
)

// Actors
const (
	ActorBot    = "bot"
	ActorSystem = "system"
)

// AuditLog represents a system audit log entry
type AuditLog struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	TenantID uuid.UUID `json:"tenant_id" gorm:"type:uuid;index"`
	Actor    string    `json:"actor" gorm:"type:varchar(20);not null"`

	// Action details
	Action   string `json:"action" gorm:"type:varchar(50);not null;index"`
	Entity   string `json:"entity" gorm:"type:varchar(50);not null;index"` // appointment, contact, birthday_send_log
	EntityID string `json:"entity_id" gorm:"type:varchar(64);index"`

	// Change tracking
	OldValue datatypes.JSON `json:"old_value,omitempty"`
	NewValue datatypes.JSON `json:"new_value,omitempty"`

	Description string         `json:"description,omitempty" gorm:"type:text"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AuditFilter represents filters for querying audit logs
type AuditFilter struct {
	TenantID  *uuid.UUID
	Action    string
	Entity    string
	EntityID  string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// AuditLogResponse represents paginated audit log response
type AuditLogResponse struct {
	Logs       []AuditLog `json:"logs"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
