package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment status constants
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"

	BookedByBot    = "bot"
	BookedByManual = "manual"
)

// Appointment is a booking. Date is "YYYY-MM-DD" and Time "HH:MM", both in the
// tenant's local timezone. A slot is unique per tenant among non-cancelled rows.
type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_appointments_slot,priority:1,where:status <> 'cancelled'" json:"tenant_id"`
	ContactID *uuid.UUID `gorm:"type:uuid;index" json:"contact_id"`
	ServiceID *uuid.UUID `gorm:"type:uuid" json:"service_id"`
	Date      string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_appointments_slot,priority:2,where:status <> 'cancelled'" json:"date"`
	Time      string     `gorm:"type:varchar(5);not null;uniqueIndex:idx_appointments_slot,priority:3,where:status <> 'cancelled'" json:"time"`
	Status    string     `gorm:"type:text;not null;default:'scheduled'" json:"status"`
	BookedBy  string     `gorm:"type:text;not null;default:'manual'" json:"booked_by"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AgendaEntry is an appointment joined with its contact and service, as
// listed in agenda exports.
type AgendaEntry struct {
	Date         string
	Time         string
	Status       string
	BookedBy     string
	Notes        string
	ContactName  *string
	ContactPhone *string
	ServiceName  *string
	ServicePrice *float64
}
