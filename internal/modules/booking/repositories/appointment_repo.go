package repositories

import (
	"context"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppointmentRepo interface {
	CreateIfSlotFree(ctx context.Context, appointment *models.Appointment) (bool, error)
	ListOccupied(ctx context.Context, tenantID uuid.UUID, fromDate string) ([]models.Appointment, error)
	ListAgenda(ctx context.Context, tenantID uuid.UUID, fromDate, toDate string) ([]models.AgendaEntry, error)
}

type appointmentRepo struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) AppointmentRepo {
	return &appointmentRepo{db: db}
}

var nonCancelledSlot = clause.Where{Exprs: []clause.Expression{
	clause.Expr{SQL: "status <> 'cancelled'"},
}}

// CreateIfSlotFree inserts the appointment unless a non-cancelled one already
// holds the same (tenant, date, time). Returns false when the slot was taken.
func (r *appointmentRepo) CreateIfSlotFree(ctx context.Context, appointment *models.Appointment) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:     []clause.Column{{Name: "tenant_id"}, {Name: "date"}, {Name: "time"}},
		TargetWhere: nonCancelledSlot,
		DoNothing:   true,
	}).Create(appointment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListOccupied returns non-cancelled appointments on or after fromDate
// ("YYYY-MM-DD"), ordered by date and time.
func (r *appointmentRepo) ListOccupied(ctx context.Context, tenantID uuid.UUID, fromDate string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Select("date", "time").
		Where("tenant_id = ? AND date >= ? AND status <> ?", tenantID, fromDate, models.AppointmentStatusCancelled).
		Order("date ASC, time ASC").
		Find(&appointments).Error
	return appointments, err
}

// ListAgenda returns every appointment between fromDate and toDate inclusive,
// with contact and service details, ordered by date and time.
func (r *appointmentRepo) ListAgenda(ctx context.Context, tenantID uuid.UUID, fromDate, toDate string) ([]models.AgendaEntry, error) {
	var entries []models.AgendaEntry
	err := r.db.WithContext(ctx).
		Table("appointments").
		Select(`appointments.date, appointments.time, appointments.status, appointments.booked_by, appointments.notes,
			contacts.name AS contact_name, contacts.phone AS contact_phone,
			services.name AS service_name, services.price AS service_price`).
		Joins("LEFT JOIN contacts ON contacts.id = appointments.contact_id").
		Joins("LEFT JOIN services ON services.id = appointments.service_id").
		Where("appointments.tenant_id = ? AND appointments.date BETWEEN ? AND ?", tenantID, fromDate, toDate).
		Order("appointments.date ASC, appointments.time ASC").
		Scan(&entries).Error
	return entries, err
}
