package services

import (
	"context"
	"fmt"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/llm"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/google/uuid"
)

// DateLayout and ClockLayout are the appointment date and time formats.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

type AvailabilityService struct {
	appointmentRepo repositories.AppointmentRepo
}

func NewAvailabilityService(appointmentRepo repositories.AppointmentRepo) *AvailabilityService {
	return &AvailabilityService{appointmentRepo: appointmentRepo}
}

// OccupiedSlots returns the tenant's non-cancelled slots from today on. The
// snapshot is advisory; the store rejects a double booking at insert time.
func (s *AvailabilityService) OccupiedSlots(ctx context.Context, tenantID uuid.UUID, today string) ([]llm.Slot, error) {
	appointments, err := s.appointmentRepo.ListOccupied(ctx, tenantID, today)
	if err != nil {
		return nil, fmt.Errorf("list occupied slots: %w", err)
	}

	slots := make([]llm.Slot, 0, len(appointments))
	for _, a := range appointments {
		slots = append(slots, llm.Slot{Date: a.Date, Time: a.Time})
	}
	return slots, nil
}
