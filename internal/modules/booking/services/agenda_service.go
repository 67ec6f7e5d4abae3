package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/export"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/llm"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/tenant"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
)

const (
	defaultAgendaDays = 30
	maxAgendaDays     = 366
)

var ErrInvalidRange = errors.New("invalid date range")

var statusLabels = map[string]string{
	models.AppointmentStatusScheduled: "Agendado",
	models.AppointmentStatusConfirmed: "Confirmado",
	models.AppointmentStatusCompleted: "Concluído",
	models.AppointmentStatusCancelled: "Cancelado",
}

// AgendaExport is a rendered agenda file.
type AgendaExport struct {
	*export.File
	Filename string
}

// AgendaService exports a tenant's appointments as a spreadsheet or PDF.
type AgendaService struct {
	resolver        *tenant.Resolver
	appointmentRepo repositories.AppointmentRepo
	exporter        *export.Service
	defaultLoc      *time.Location
	now             func() time.Time
}

func NewAgendaService(resolver *tenant.Resolver, appointmentRepo repositories.AppointmentRepo, exporter *export.Service, defaultLoc *time.Location) *AgendaService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &AgendaService{
		resolver:        resolver,
		appointmentRepo: appointmentRepo,
		exporter:        exporter,
		defaultLoc:      defaultLoc,
		now:             time.Now,
	}
}

// WithClock replaces the time source.
func (s *AgendaService) WithClock(now func() time.Time) *AgendaService {
	s.now = now
	return s
}

// Export renders the appointments between from and to ("YYYY-MM-DD",
// inclusive). An empty from means the tenant's today; an empty to means 30
// days after from.
func (s *AgendaService) Export(ctx context.Context, tenantID, from, to, format string) (*AgendaExport, error) {
	exportFormat, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	t, err := s.resolver.ResolveByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	start, end, err := s.dateRange(t, from, to)
	if err != nil {
		return nil, err
	}

	entries, err := s.appointmentRepo.ListAgenda(ctx, t.ID, start.Format(DateLayout), end.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("list agenda: %w", err)
	}

	table := AgendaTable(t, entries, start, end)
	table.GeneratedAt = s.now().In(t.Location(s.defaultLoc))

	file, err := s.exporter.Render(table, exportFormat)
	if err != nil {
		return nil, err
	}

	return &AgendaExport{
		File:     file,
		Filename: fmt.Sprintf("agenda-%s-%s%s", start.Format(DateLayout), end.Format(DateLayout), file.Extension),
	}, nil
}

func (s *AgendaService) dateRange(t *models.Tenant, from, to string) (time.Time, time.Time, error) {
	loc := t.Location(s.defaultLoc)

	start := s.now().In(loc)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	if from != "" {
		parsed, err := time.ParseInLocation(DateLayout, from, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from %q", ErrInvalidRange, from)
		}
		start = parsed
	}

	end := start.AddDate(0, 0, defaultAgendaDays)
	if to != "" {
		parsed, err := time.ParseInLocation(DateLayout, to, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to %q", ErrInvalidRange, to)
		}
		end = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to is before from", ErrInvalidRange)
	}
	if end.Sub(start) > maxAgendaDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: more than %d days", ErrInvalidRange, maxAgendaDays)
	}
	return start, end, nil
}

// AgendaTable lays out agenda entries with Portuguese headers and labels.
func AgendaTable(t *models.Tenant, entries []models.AgendaEntry, start, end time.Time) *export.Table {
	style := export.DefaultStyle()
	style.Landscape = true
	style.ColumnWidths = map[int]float64{0: 12, 1: 8, 2: 24, 3: 16, 4: 20, 5: 12, 6: 12, 7: 10, 8: 30}

	table := &export.Table{
		Title:       "Agenda " + t.Name,
		Description: fmt.Sprintf("%s a %s", start.Format("02/01/2006"), end.Format("02/01/2006")),
		Headers:     []string{"Data", "Hora", "Cliente", "Telefone", "Serviço", "Valor", "Status", "Origem", "Observações"},
		Style:       style,
	}

	for _, e := range entries {
		date := e.Date
		if d, err := time.Parse(DateLayout, e.Date); err == nil {
			date = d.Format("02/01/2006")
		}

		price := ""
		if e.ServicePrice != nil {
			price = "R$ " + llm.FormatPrice(*e.ServicePrice)
		}

		status, ok := statusLabels[e.Status]
		if !ok {
			status = e.Status
		}

		origin := "Manual"
		if e.BookedBy == models.BookedByBot {
			origin = "Bot"
		}

		table.Rows = append(table.Rows, []interface{}{
			date, e.Time, deref(e.ContactName), deref(e.ContactPhone), deref(e.ServiceName), price, status, origin, e.Notes,
		})
	}
	return table
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
