package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DayHours is the opening window of a single weekday, times as "HH:MM".
type DayHours struct {
	Open  bool   `json:"open"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// BusinessHours is keyed by lowercase English weekday name ("monday" ... "sunday").
type BusinessHours map[string]DayHours

// WeekdayKey is the BusinessHours key of a weekday.
func WeekdayKey(day time.Weekday) string {
	return strings.ToLower(day.String())
}

// For returns the hours configured for the weekday. Missing days count as closed.
func (b BusinessHours) For(day time.Weekday) DayHours {
	if b == nil {
		return DayHours{}
	}
	return b[WeekdayKey(day)]
}

// IsOpenAt reports whether clock ("HH:MM") falls inside [start, end) on day.
func (b BusinessHours) IsOpenAt(day time.Weekday, clock string) bool {
	h := b.For(day)
	if !h.Open || h.Start == "" || h.End == "" {
		return false
	}
	return clock >= h.Start && clock < h.End
}

// Tenant is a company using the booking bot.
type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"type:text" json:"phone"`
	Email     string    `gorm:"type:text" json:"email"`
	Instagram string    `gorm:"type:text" json:"instagram"`
	Timezone  string    `gorm:"type:text" json:"timezone"`

	BusinessHours datatypes.JSONType[BusinessHours] `json:"business_hours"`

	// WhatsApp Cloud API credentials
	WhatsAppPhoneNumberID     string `gorm:"column:whatsapp_phone_number_id;type:text;index" json:"whatsapp_phone_number_id"`
	WhatsAppAccessToken       string `gorm:"column:whatsapp_access_token;type:text" json:"-"`
	WhatsAppBusinessAccountID string `gorm:"column:whatsapp_business_account_id;type:text" json:"whatsapp_business_account_id"`
	WhatsAppVerifyToken       string `gorm:"column:whatsapp_verify_token;type:text" json:"-"`

	BotEnabled       bool   `gorm:"default:false" json:"bot_enabled"`
	BirthdayEnabled  bool   `gorm:"default:false" json:"birthday_enabled"`
	BirthdayTemplate string `gorm:"type:text" json:"birthday_template"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// HasGatewayCredentials reports whether outbound sends are possible.
func (t *Tenant) HasGatewayCredentials() bool {
	return t.WhatsAppPhoneNumberID != "" && t.WhatsAppAccessToken != ""
}

// Hours returns the decoded business hours table.
func (t *Tenant) Hours() BusinessHours {
	return t.BusinessHours.Data()
}

// Location resolves the tenant timezone, using fallback when unset or unknown.
func (t *Tenant) Location(fallback *time.Location) *time.Location {
	if t.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
