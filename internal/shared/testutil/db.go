// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/audit"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLite("file::memory:?_time_format=sqlite")
	require.NoError(t, err)

	tables := append(models.All(), &audit.AuditLog{})
	require.NoError(t, db.AutoMigrate(tables...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// WeekHours opens Monday to Saturday 09:00-19:00 and closes Sunday.
func WeekHours() models.BusinessHours {
	hours := models.BusinessHours{}
	for _, day := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday} {
		hours[models.WeekdayKey(day)] = models.DayHours{Open: true, Start: "09:00", End: "19:00"}
	}
	hours[models.WeekdayKey(time.Sunday)] = models.DayHours{Open: false}
	return hours
}

// CreateTenant inserts a bot-enabled tenant with gateway credentials.
func CreateTenant(t *testing.T, db *gorm.DB, mutate ...func(*models.Tenant)) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{
		ID:                    uuid.New(),
		Name:                  "Corte & Arte",
		Address:               "Rua das Flores, 123",
		Phone:                 "+55 11 3000-0000",
		Timezone:              "America/Sao_Paulo",
		BusinessHours:         datatypes.NewJSONType(WeekHours()),
		WhatsAppPhoneNumberID: "PNID-" + uuid.NewString()[:8],
		WhatsAppAccessToken:   "token",
		WhatsAppVerifyToken:   "secret",
		BotEnabled:            true,
		BirthdayEnabled:       true,
	}
	for _, m := range mutate {
		m(tenant)
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

// OpenEveryDay opens all seven days 08:00-20:00.
func OpenEveryDay(tn *models.Tenant) {
	hours := models.BusinessHours{}
	for day := time.Sunday; day <= time.Saturday; day++ {
		hours[models.WeekdayKey(day)] = models.DayHours{Open: true, Start: "08:00", End: "20:00"}
	}
	tn.BusinessHours = datatypes.NewJSONType(hours)
}

// NoHours leaves the tenant without any configured business hours.
func NoHours(tn *models.Tenant) {
	tn.BusinessHours = datatypes.NewJSONType(models.BusinessHours{})
}

// SaoPaulo returns the America/Sao_Paulo location.
func SaoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

// Clock returns a fixed time source.
func Clock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// CreateService inserts an active catalog service.
func CreateService(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string, price float64, minutes int) *models.Service {
	t.Helper()

	svc := &models.Service{
		TenantID:        tenantID,
		Name:            name,
		Price:           price,
		DurationMinutes: minutes,
		IsActive:        true,
	}
	require.NoError(t, db.Create(svc).Error)
	return svc
}
