package services

import (
	"context"
	"fmt"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/llm"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
)

// displayWeek is the weekday order used in the prompt.
var displayWeek = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

type KnowledgeService struct {
	catalogRepo  repositories.CatalogRepo
	availability *AvailabilityService
}

func NewKnowledgeService(catalogRepo repositories.CatalogRepo, availability *AvailabilityService) *KnowledgeService {
	return &KnowledgeService{
		catalogRepo:  catalogRepo,
		availability: availability,
	}
}

// Build gathers the tenant profile, active catalog and occupied slots for
// one turn. The active catalog is returned too so directives can be resolved
// against the same list the assistant saw.
func (s *KnowledgeService) Build(ctx context.Context, tenant *models.Tenant, contact *models.Contact, today time.Time) (*llm.KnowledgeBase, []models.Service, error) {
	catalog, err := s.catalogRepo.ListActive(ctx, tenant.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list services: %w", err)
	}

	occupied, err := s.availability.OccupiedSlots(ctx, tenant.ID, today.Format(DateLayout))
	if err != nil {
		return nil, nil, err
	}

	kb := CompileKnowledge(tenant, catalog, occupied, contact.BirthDate == nil)
	kb.Today = today
	return kb, catalog, nil
}

// CompileKnowledge maps stored rows onto the prompt knowledge base.
func CompileKnowledge(tenant *models.Tenant, catalog []models.Service, occupied []llm.Slot, needsBirthDate bool) *llm.KnowledgeBase {
	kb := &llm.KnowledgeBase{
		BusinessName:   tenant.Name,
		Address:        tenant.Address,
		Phone:          tenant.Phone,
		Email:          tenant.Email,
		Instagram:      tenant.Instagram,
		OccupiedSlots:  occupied,
		NeedsBirthDate: needsBirthDate,
	}

	hours := tenant.Hours()
	for _, day := range displayWeek {
		h := hours.For(day)
		kb.Hours = append(kb.Hours, llm.WeekdayHours{
			Day:   day,
			Open:  h.Open,
			Start: h.Start,
			End:   h.End,
		})
	}

	for _, svc := range catalog {
		kb.Services = append(kb.Services, llm.CatalogItem{
			Name:            svc.Name,
			Description:     svc.Description,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
		})
	}
	return kb
}
