package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/audit"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/whatsapp"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/utils"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBirthdayTemplate = "Feliz aniversário, {nome}! 🎉 A equipe {empresa} deseja um dia incrível para você. Aproveite!"
	fallbackBusinessName    = "da barbearia"

	// birthdayConcurrency caps the tenants processed in parallel.
	birthdayConcurrency = 4
)

// BirthdaySummary is the outcome of one notifier run.
type BirthdaySummary struct {
	Tenants int `json:"tenants"`
	Skipped int `json:"skipped"` // tenants outside business hours
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

type BirthdayService struct {
	tenantRepo       repositories.TenantRepo
	contactRepo      repositories.ContactRepo
	birthdayLogRepo  repositories.BirthdayLogRepo
	conversationRepo repositories.ConversationRepo
	messageRepo      repositories.MessageRepo
	senders          whatsapp.SenderFactory
	audit            audit.Recorder
	defaultLoc       *time.Location
	now              func() time.Time
}

func NewBirthdayService(
	tenantRepo repositories.TenantRepo,
	contactRepo repositories.ContactRepo,
	birthdayLogRepo repositories.BirthdayLogRepo,
	conversationRepo repositories.ConversationRepo,
	messageRepo repositories.MessageRepo,
	senders whatsapp.SenderFactory,
	recorder audit.Recorder,
	defaultLoc *time.Location,
) *BirthdayService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &BirthdayService{
		tenantRepo:       tenantRepo,
		contactRepo:      contactRepo,
		birthdayLogRepo:  birthdayLogRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		senders:          senders,
		audit:            recorder,
		defaultLoc:       defaultLoc,
		now:              time.Now,
	}
}

// WithClock replaces the time source.
func (s *BirthdayService) WithClock(now func() time.Time) *BirthdayService {
	s.now = now
	return s
}

// Run sends today's birthday greetings for every enabled tenant. Failures of
// a single tenant or contact are logged and do not stop the batch; only a
// failure to list tenants is returned.
func (s *BirthdayService) Run(ctx context.Context) (*BirthdaySummary, error) {
	tenants, err := s.tenantRepo.ListBirthdayEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list birthday tenants: %w", err)
	}

	var mu sync.Mutex
	summary := &BirthdaySummary{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(birthdayConcurrency)
	for i := range tenants {
		t := &tenants[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			sent, failed, open, err := s.runTenant(gctx, t)
			if err != nil {
				log.Error().Err(err).Str("tenant_id", t.ID.String()).Msg("❌ Birthday run failed for tenant")
			}

			mu.Lock()
			defer mu.Unlock()
			summary.Tenants++
			summary.Sent += sent
			summary.Failed += failed
			if !open {
				summary.Skipped++
			}
			if err != nil {
				summary.Failed++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	log.Info().
		Int("tenants", summary.Tenants).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("🎂 Birthday run finished")
	return summary, nil
}

// runTenant reports open=false when the tenant was skipped for being closed.
func (s *BirthdayService) runTenant(ctx context.Context, t *models.Tenant) (sent, failed int, open bool, err error) {
	now := s.now().In(t.Location(s.defaultLoc))
	logger := log.With().Str("tenant_id", t.ID.String()).Logger()

	// Tenants that never configured hours are always open.
	hours := t.Hours()
	if len(hours) > 0 && !hours.IsOpenAt(now.Weekday(), now.Format(ClockLayout)) {
		logger.Debug().Str("weekday", now.Weekday().String()).Msg("outside business hours, skipping birthdays")
		return 0, 0, false, nil
	}

	sender, err := s.senders.ForTenant(whatsapp.Credentials{
		PhoneNumberID: t.WhatsAppPhoneNumberID,
		AccessToken:   t.WhatsAppAccessToken,
	})
	if err != nil {
		return 0, 0, true, err
	}

	contacts, err := s.contactRepo.ListWithBirthDate(ctx, t.ID)
	if err != nil {
		return 0, 0, true, fmt.Errorf("list contacts: %w", err)
	}

	for i := range contacts {
		c := &contacts[i]
		if !c.HasBirthdayOn(now) {
			continue
		}

		ok, err := s.greet(ctx, t, c, sender, now)
		if err != nil {
			failed++
			logger.Error().Err(err).Str("phone", c.Phone).Msg("❌ Birthday greeting failed")
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, failed, true, nil
}

// greet returns false without error when the contact was already greeted
// this year. The ledger row is reserved before sending so that overlapping
// runs cannot both send; a failed send releases it for the next run.
func (s *BirthdayService) greet(ctx context.Context, t *models.Tenant, c *models.Contact, sender whatsapp.Sender, now time.Time) (bool, error) {
	year := now.Year()

	reserved, err := s.birthdayLogRepo.Reserve(ctx, t.ID, c.ID, year, now)
	if err != nil {
		return false, fmt.Errorf("reserve send log: %w", err)
	}
	if !reserved {
		return false, nil
	}

	body := RenderBirthdayMessage(t.BirthdayTemplate, c.DisplayName(), t.Name)
	if _, err := sender.SendText(ctx, c.Phone, body); err != nil {
		if relErr := s.birthdayLogRepo.Release(ctx, t.ID, c.ID, year); relErr != nil {
			log.Error().Err(relErr).Str("tenant_id", t.ID.String()).Str("phone", c.Phone).Msg("❌ Failed to release birthday send log")
		}
		return false, fmt.Errorf("send: %w", err)
	}

	log.Info().Str("tenant_id", t.ID.String()).Str("phone", c.Phone).Msg("🎂 Birthday greeting sent")

	if s.audit != nil {
		s.audit.Record(ctx, audit.Entry(t.ID, audit.ActorSystem, audit.ActionBirthdaySent, "contact", c.ID.String(), map[string]interface{}{
			"year": year,
		}))
	}

	s.appendToConversation(ctx, t, c, body, now)
	return true, nil
}

// appendToConversation logs the greeting in the active conversation. No
// conversation is opened when the contact has none.
func (s *BirthdayService) appendToConversation(ctx context.Context, t *models.Tenant, c *models.Contact, body string, now time.Time) {
	conversation, err := s.conversationRepo.FindActive(ctx, t.ID, c.ID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", t.ID.String()).Msg("❌ Failed to load conversation for birthday message")
		return
	}
	if conversation == nil {
		return
	}

	content := body
	message := &models.Message{
		TenantID:       t.ID,
		ConversationID: conversation.ID,
		Direction:      models.DirectionOutbound,
		Content:        &content,
		MessageType:    models.MessageTypeText,
		IsBotResponse:  true,
		Status:         models.MessageStatusSent,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		log.Error().Err(err).Str("tenant_id", t.ID.String()).Msg("❌ Failed to store birthday message")
		return
	}
	if err := s.conversationRepo.Touch(ctx, conversation.ID, utils.Truncate(body, models.PreviewLength), now); err != nil {
		log.Error().Err(err).Str("tenant_id", t.ID.String()).Msg("❌ Failed to refresh conversation preview")
	}
}

// RenderBirthdayMessage fills {nome} and {empresa} in template, using the
// default template when it is blank. contactName is expected to be a
// Contact.DisplayName.
func RenderBirthdayMessage(template, contactName, businessName string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultBirthdayTemplate
	}
	if strings.TrimSpace(businessName) == "" {
		businessName = fallbackBusinessName
	}
	return strings.NewReplacer("{nome}", contactName, "{empresa}", businessName).Replace(template)
}
