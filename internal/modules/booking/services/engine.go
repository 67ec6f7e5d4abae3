package services

import (
	"context"
	"fmt"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/llm"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/whatsapp"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/utils"
	"github.com/rs/zerolog/log"
)

// HistoryLimit is how many earlier messages are replayed to the model.
const HistoryLimit = 10

// Completer is the chat completion call the engine depends on.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// Turn is one inbound message the engine should answer.
type Turn struct {
	Tenant       *models.Tenant
	Contact      *models.Contact
	Conversation *models.Conversation
	Inbound      *models.Message
	// Now is the tenant-local time of the turn.
	Now time.Time
}

// Reply is what the engine did for a turn.
type Reply struct {
	Text       string
	Message    *models.Message
	Delivered  bool
	Directives Directives
	Execution  ExecutionResult
}

// Engine generates, persists and delivers the bot reply to one inbound message.
type Engine struct {
	knowledge        *KnowledgeService
	executor         *DirectiveExecutor
	completer        Completer
	senders          whatsapp.SenderFactory
	messageRepo      repositories.MessageRepo
	conversationRepo repositories.ConversationRepo
}

func NewEngine(
	knowledge *KnowledgeService,
	executor *DirectiveExecutor,
	completer Completer,
	senders whatsapp.SenderFactory,
	messageRepo repositories.MessageRepo,
	conversationRepo repositories.ConversationRepo,
) *Engine {
	return &Engine{
		knowledge:        knowledge,
		executor:         executor,
		completer:        completer,
		senders:          senders,
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
	}
}

// Respond runs knowledge, completion, directives, persistence and delivery
// strictly in that order. A nil reply with nil error means the turn ended
// without an answer (model failure or an empty cleaned reply).
func (e *Engine) Respond(ctx context.Context, turn Turn) (*Reply, error) {
	tenantID := turn.Tenant.ID.String()
	phone := turn.Contact.Phone

	kb, catalog, err := e.knowledge.Build(ctx, turn.Tenant, turn.Contact, turn.Now)
	if err != nil {
		return nil, fmt.Errorf("build knowledge: %w", err)
	}

	history, err := e.messageRepo.Recent(ctx, turn.Conversation.ID, HistoryLimit, turn.Inbound.ID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	messages := BuildChatMessages(llm.BuildSystemPrompt(kb), history, turn.Inbound.Text())

	log.Debug().Str("tenant_id", tenantID).Str("phone", phone).Int("history", len(history)).Msg("🤖 Calling LLM")
	raw, err := e.completer.Complete(ctx, messages)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Str("phone", phone).Msg("❌ LLM completion failed, no reply sent")
		return nil, nil
	}

	directives := ParseDirectives(raw)
	execution := e.executor.Execute(ctx, turn.Tenant, turn.Contact, catalog, directives, turn.Now)

	if directives.Cleaned == "" {
		log.Warn().Str("tenant_id", tenantID).Str("phone", phone).Msg("⚠️ Reply was empty after removing directives, nothing to send")
		return nil, nil
	}

	reply := &Reply{
		Text:       directives.Cleaned,
		Directives: directives,
		Execution:  execution,
	}

	content := directives.Cleaned
	outbound := &models.Message{
		TenantID:       turn.Tenant.ID,
		ConversationID: turn.Conversation.ID,
		Direction:      models.DirectionOutbound,
		Content:        &content,
		MessageType:    models.MessageTypeText,
		IsBotResponse:  true,
		Status:         models.MessageStatusSent,
	}
	if err := e.messageRepo.Create(ctx, outbound); err != nil {
		return nil, fmt.Errorf("save reply: %w", err)
	}
	reply.Message = outbound

	// The row stays "sent" even when delivery fails.
	reply.Delivered = e.deliver(ctx, turn.Tenant, phone, content)

	if err := e.conversationRepo.Touch(ctx, turn.Conversation.ID, utils.Truncate(content, models.PreviewLength), turn.Now); err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("❌ Failed to refresh conversation preview")
	}

	return reply, nil
}

func (e *Engine) deliver(ctx context.Context, tenant *models.Tenant, to, body string) bool {
	sender, err := e.senders.ForTenant(whatsapp.Credentials{
		PhoneNumberID: tenant.WhatsAppPhoneNumberID,
		AccessToken:   tenant.WhatsAppAccessToken,
	})
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("❌ No WhatsApp sender for tenant")
		return false
	}

	if _, err := sender.SendText(ctx, to, body); err != nil {
		log.Error().Err(err).Str("tenant_id", tenant.ID.String()).Str("phone", to).Msg("❌ Failed to send WhatsApp reply")
		return false
	}

	log.Info().Str("tenant_id", tenant.ID.String()).Str("phone", to).Msg("✅ Reply sent")
	return true
}

// BuildChatMessages lays out the request: system knowledge, prior turns
// oldest first, then the message being answered.
func BuildChatMessages(systemPrompt string, history []models.Message, userText string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})

	for _, m := range history {
		text := m.Text()
		if text == "" {
			continue
		}
		role := llm.RoleUser
		if m.Direction == models.DirectionOutbound {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: text})
	}

	return append(messages, llm.Message{Role: llm.RoleUser, Content: userText})
}
