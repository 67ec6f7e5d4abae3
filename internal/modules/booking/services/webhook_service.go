package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/tenant"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/whatsapp"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InboundResult summarizes the handling of one webhook notification.
type InboundResult struct {
	TenantID       uuid.UUID
	ContactID      uuid.UUID
	ConversationID uuid.UUID
	MessageID      uuid.UUID
	// Duplicate is set when the gateway message id was already stored.
	Duplicate bool
	Reply     *Reply
}

type WebhookService struct {
	resolver         *tenant.Resolver
	contactRepo      repositories.ContactRepo
	conversationRepo repositories.ConversationRepo
	messageRepo      repositories.MessageRepo
	engine           *Engine
	defaultLoc       *time.Location
	now              func() time.Time
}

func NewWebhookService(
	resolver *tenant.Resolver,
	contactRepo repositories.ContactRepo,
	conversationRepo repositories.ConversationRepo,
	messageRepo repositories.MessageRepo,
	engine *Engine,
	defaultLoc *time.Location,
) *WebhookService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &WebhookService{
		resolver:         resolver,
		contactRepo:      contactRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		engine:           engine,
		defaultLoc:       defaultLoc,
		now:              time.Now,
	}
}

// WithClock replaces the time source.
func (s *WebhookService) WithClock(now func() time.Time) *WebhookService {
	s.now = now
	return s
}

// Verify answers the gateway subscription handshake. It returns the
// challenge when the token matches the tenant's stored secret.
func (s *WebhookService) Verify(ctx context.Context, mode, token, challenge, tenantID string) (string, error) {
	if tenantID == "" || token == "" {
		return "", ErrVerificationFailed
	}
	if mode != "" && mode != "subscribe" {
		return "", ErrVerificationFailed
	}

	t, err := s.resolver.ResolveByID(ctx, tenantID)
	if errors.Is(err, ErrTenantNotFound) {
		return "", ErrVerificationFailed
	}
	if err != nil {
		return "", err
	}

	if t.WhatsAppVerifyToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(t.WhatsAppVerifyToken)) != 1 {
		log.Warn().Str("tenant_id", tenantID).Msg("⚠️ Webhook verification token mismatch")
		return "", ErrVerificationFailed
	}

	log.Info().Str("tenant_id", tenantID).Msg("✅ Webhook verified")
	return challenge, nil
}

// HandleInbound stores the first message of a notification and, when the
// tenant bot is enabled and can send, answers it.
func (s *WebhookService) HandleInbound(ctx context.Context, tenantID string, payload *whatsapp.WebhookPayload) (*InboundResult, error) {
	msg, ok := payload.FirstMessage()
	if !ok {
		return nil, ErrNoMessage
	}

	t, err := s.resolver.Resolve(ctx, tenantID, msg.PhoneNumberID)
	if err != nil {
		return nil, err
	}

	result := &InboundResult{TenantID: t.ID}
	logger := log.With().Str("tenant_id", t.ID.String()).Str("phone", msg.From).Logger()

	duplicate, err := s.messageRepo.ExistsByExternalID(ctx, t.ID, msg.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("check duplicate message: %w", err)
	}
	if duplicate {
		logger.Info().Str("external_id", msg.ExternalID).Msg("🔁 Message already processed, skipping")
		result.Duplicate = true
		return result, nil
	}

	now := s.now().In(t.Location(s.defaultLoc))

	contact, err := s.contactRepo.Upsert(ctx, t.ID, msg.From, msg.ProfileName, now)
	if err != nil {
		return nil, fmt.Errorf("upsert contact: %w", err)
	}
	result.ContactID = contact.ID

	isText := msg.Type == models.MessageTypeText
	preview := msg.Text
	if !isText {
		preview = "[" + msg.Type + "]"
	}

	conversation, err := s.conversationRepo.RecordInbound(ctx, t.ID, contact.ID, utils.Truncate(preview, models.PreviewLength), now)
	if err != nil {
		return nil, fmt.Errorf("upsert conversation: %w", err)
	}
	result.ConversationID = conversation.ID

	inbound := &models.Message{
		TenantID:       t.ID,
		ConversationID: conversation.ID,
		Direction:      models.DirectionInbound,
		MessageType:    msg.Type,
		Status:         models.MessageStatusReceived,
		ExternalID:     msg.ExternalID,
	}
	if isText {
		text := msg.Text
		inbound.Content = &text
	}
	if err := s.messageRepo.Create(ctx, inbound); err != nil {
		return nil, fmt.Errorf("save inbound message: %w", err)
	}
	result.MessageID = inbound.ID
	logger.Info().Str("type", msg.Type).Msg("📩 Inbound message stored")

	switch {
	case !t.BotEnabled:
		logger.Debug().Msg("bot disabled, not replying")
		return result, nil
	case !t.HasGatewayCredentials():
		logger.Warn().Msg("⚠️ Tenant has no WhatsApp credentials, not replying")
		return result, nil
	case !isText || msg.Text == "":
		logger.Debug().Str("type", msg.Type).Msg("non-text message, not replying")
		return result, nil
	}

	reply, err := s.engine.Respond(ctx, Turn{
		Tenant:       t,
		Contact:      contact,
		Conversation: conversation,
		Inbound:      inbound,
		Now:          now,
	})
	if err != nil {
		logger.Error().Err(err).Msg("❌ Failed to generate reply")
		return result, nil
	}
	result.Reply = reply
	return result, nil
}
