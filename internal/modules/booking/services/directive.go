package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/audit"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var (
	birthDateTag   = regexp.MustCompile(`\[NASCIMENTO:(\d{2})/(\d{2})/(\d{4})\]`)
	appointmentTag = regexp.MustCompile(`\[AGENDAR:([^|]+)\|(\d{4}-\d{2}-\d{2})\|(\d{2}:\d{2})\]`)
)

// AppointmentDirective is a parsed [AGENDAR:service|date|time] tag.
type AppointmentDirective struct {
	Service string `validate:"required"`
	Date    string `validate:"required,datetime=2006-01-02"`
	Time    string `validate:"required,datetime=15:04"`
}

// Directives holds what the assistant asked for in one reply.
type Directives struct {
	// BirthDate is the raw DD/MM/YYYY value, empty when absent.
	BirthDate   string
	Appointment *AppointmentDirective
	// Cleaned is the reply with every tag removed and surrounding space trimmed.
	Cleaned string
}

// ParseDirectives scans a reply for at most one birth date and one
// appointment tag. Absent tags are not an error.
func ParseDirectives(reply string) Directives {
	var d Directives

	if m := birthDateTag.FindStringSubmatch(reply); m != nil {
		d.BirthDate = m[1] + "/" + m[2] + "/" + m[3]
	}
	if m := appointmentTag.FindStringSubmatch(reply); m != nil {
		d.Appointment = &AppointmentDirective{
			Service: strings.TrimSpace(m[1]),
			Date:    m[2],
			Time:    m[3],
		}
	}

	cleaned := birthDateTag.ReplaceAllString(reply, "")
	cleaned = appointmentTag.ReplaceAllString(cleaned, "")
	d.Cleaned = strings.TrimSpace(cleaned)
	return d
}

// ParseBirthDate converts DD/MM/YYYY into a UTC midnight date.
func ParseBirthDate(value string) (time.Time, error) {
	t, err := time.Parse("02/01/2006", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birth date %q", ErrInvalidDirective, value)
	}
	return t, nil
}

// ExecutionResult reports the side effects of a reply's directives.
type ExecutionResult struct {
	BirthDate      *time.Time
	Appointment    *models.Appointment
	AppointmentErr error
}

type DirectiveExecutor struct {
	contactRepo     repositories.ContactRepo
	appointmentRepo repositories.AppointmentRepo
	audit           audit.Recorder
	validate        *validator.Validate
}

func NewDirectiveExecutor(contactRepo repositories.ContactRepo, appointmentRepo repositories.AppointmentRepo, recorder audit.Recorder) *DirectiveExecutor {
	return &DirectiveExecutor{
		contactRepo:     contactRepo,
		appointmentRepo: appointmentRepo,
		audit:           recorder,
		validate:        validator.New(),
	}
}

// Execute applies the directives. Failures are reported in the result and
// logged; they never abort the reply.
func (e *DirectiveExecutor) Execute(ctx context.Context, tenant *models.Tenant, contact *models.Contact, catalog []models.Service, d Directives, now time.Time) ExecutionResult {
	var result ExecutionResult

	if d.BirthDate != "" {
		birthDate, err := e.saveBirthDate(ctx, tenant, contact, d.BirthDate)
		if err != nil {
			log.Warn().Err(err).Str("tenant_id", tenant.ID.String()).Str("phone", contact.Phone).Msg("⚠️ Birth date directive ignored")
		} else {
			result.BirthDate = &birthDate
		}
	}

	if d.Appointment != nil {
		appointment, err := e.book(ctx, tenant, contact, catalog, d.Appointment, now)
		if err != nil {
			result.AppointmentErr = err
			log.Warn().Err(err).
				Str("tenant_id", tenant.ID.String()).
				Str("phone", contact.Phone).
				Str("date", d.Appointment.Date).
				Str("time", d.Appointment.Time).
				Msg("⚠️ Appointment directive rejected")
			e.record(ctx, audit.Entry(tenant.ID, audit.ActorBot, audit.ActionAppointmentRejected, "appointment", "", map[string]interface{}{
				"contact_id": contact.ID,
				"service":    d.Appointment.Service,
				"date":       d.Appointment.Date,
				"time":       d.Appointment.Time,
				"reason":     err.Error(),
			}))
		} else {
			result.Appointment = appointment
		}
	}

	return result
}

func (e *DirectiveExecutor) saveBirthDate(ctx context.Context, tenant *models.Tenant, contact *models.Contact, value string) (time.Time, error) {
	birthDate, err := ParseBirthDate(value)
	if err != nil {
		return time.Time{}, err
	}
	if err := e.contactRepo.SetBirthDate(ctx, contact.ID, birthDate); err != nil {
		return time.Time{}, fmt.Errorf("save birth date: %w", err)
	}

	old := contact.BirthDate
	contact.BirthDate = &birthDate

	log.Info().Str("tenant_id", tenant.ID.String()).Str("phone", contact.Phone).Str("birth_date", birthDate.Format(DateLayout)).Msg("🎂 Birth date captured")
	if e.audit != nil {
		e.audit.RecordChange(ctx, tenant.ID, audit.ActorBot, audit.ActionContactBirthDate, "contact", contact.ID.String(), dateValue(old), birthDate.Format(DateLayout))
	}
	return birthDate, nil
}

func (e *DirectiveExecutor) book(ctx context.Context, tenant *models.Tenant, contact *models.Contact, catalog []models.Service, d *AppointmentDirective, now time.Time) (*models.Appointment, error) {
	if err := e.validate.Struct(d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDirective, err)
	}

	loc := now.Location()
	start, err := time.ParseInLocation(DateLayout+" "+ClockLayout, d.Date+" "+d.Time, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDirective, err)
	}
	if start.Before(now) {
		return nil, fmt.Errorf("%w: %s %s is in the past", ErrInvalidDirective, d.Date, d.Time)
	}

	// Tenants that never configured hours accept any slot.
	hours := tenant.Hours()
	if len(hours) > 0 && !hours.IsOpenAt(start.Weekday(), d.Time) {
		return nil, fmt.Errorf("%w: %s %s", ErrOutsideBusinessHours, d.Date, d.Time)
	}

	contactID := contact.ID
	appointment := &models.Appointment{
		TenantID:  tenant.ID,
		ContactID: &contactID,
		Date:      d.Date,
		Time:      d.Time,
		Status:    models.AppointmentStatusScheduled,
		BookedBy:  models.BookedByBot,
	}

	if svc := matchService(catalog, d.Service); svc != nil {
		serviceID := svc.ID
		appointment.ServiceID = &serviceID
		appointment.Notes = "Agendado pelo assistente do WhatsApp"
	} else {
		appointment.Notes = fmt.Sprintf("Agendado pelo assistente do WhatsApp (serviço não encontrado: %s)", d.Service)
	}

	created, err := e.appointmentRepo.CreateIfSlotFree(ctx, appointment)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	if !created {
		return nil, fmt.Errorf("%w: %s %s", ErrSlotUnavailable, d.Date, d.Time)
	}

	log.Info().
		Str("tenant_id", tenant.ID.String()).
		Str("phone", contact.Phone).
		Str("appointment_id", appointment.ID.String()).
		Str("date", d.Date).
		Str("time", d.Time).
		Msg("📅 Appointment booked by bot")

	e.record(ctx, audit.Entry(tenant.ID, audit.ActorBot, audit.ActionAppointmentCreate, "appointment", appointment.ID.String(), map[string]interface{}{
		"contact_id": contact.ID,
		"service":    d.Service,
		"service_id": appointment.ServiceID,
		"date":       d.Date,
		"time":       d.Time,
		"booked_by":  models.BookedByBot,
	}))
	return appointment, nil
}

// matchService is a case-insensitive exact match on the service name.
func matchService(catalog []models.Service, name string) *models.Service {
	for i := range catalog {
		if strings.EqualFold(strings.TrimSpace(catalog[i].Name), name) {
			return &catalog[i]
		}
	}
	return nil
}

func (e *DirectiveExecutor) record(ctx context.Context, entry *audit.AuditLog) {
	if e.audit != nil {
		e.audit.Record(ctx, entry)
	}
}

// dateValue keeps a missing date as SQL NULL in the audit row.
func dateValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}
