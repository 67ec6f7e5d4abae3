package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/audit"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/llm"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/whatsapp"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customerPhone = "5511999990000"

// Tuesday morning in São Paulo.
func tuesdayMorning(t *testing.T) time.Time {
	return time.Date(2026, time.March, 10, 10, 0, 0, 0, testutil.SaoPaulo(t))
}

func TestWebhookService_Verify(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db)
	ctx := context.Background()

	challenge, err := f.webhook.Verify(ctx, "subscribe", "secret", "1158201444", tn.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "1158201444", challenge)

	tests := []struct {
		name     string
		mode     string
		token    string
		tenantID string
	}{
		{"wrong token", "subscribe", "nope", tn.ID.String()},
		{"unknown tenant", "subscribe", "secret", uuid.NewString()},
		{"missing tenant", "subscribe", "secret", ""},
		{"malformed tenant", "subscribe", "secret", "abc"},
		{"missing token", "subscribe", "", tn.ID.String()},
		{"wrong mode", "unsubscribe", "secret", tn.ID.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.webhook.Verify(ctx, tt.mode, tt.token, "1158201444", tt.tenantID)
			assert.ErrorIs(t, err, ErrVerificationFailed)
		})
	}
}

func TestWebhookService_BooksAppointmentAndStripsDirective(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db, testutil.OpenEveryDay)
	corte := testutil.CreateService(t, f.db, tn.ID, "Corte", 35, 30)
	testutil.CreateService(t, f.db, tn.ID, "Barba", 25, 20)

	f.completer.replies = []string{"Perfeito, vou agendar! [AGENDAR:corte|2026-03-15|14:00]"}

	result, err := f.webhook.HandleInbound(context.Background(), "", textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.1", "Pode ser domingo às 14h"))
	require.NoError(t, err)
	require.NotNil(t, result.Reply)

	assert.Equal(t, "Perfeito, vou agendar!", result.Reply.Text)
	assert.True(t, result.Reply.Delivered)
	require.Len(t, f.sender.Sent(), 1)
	assert.Equal(t, sentMessage{To: customerPhone, Body: "Perfeito, vou agendar!"}, f.sender.Sent()[0])

	var outbound models.Message
	require.NoError(t, f.db.Where("conversation_id = ? AND direction = ?", result.ConversationID, models.DirectionOutbound).First(&outbound).Error)
	assert.Equal(t, "Perfeito, vou agendar!", outbound.Text())
	assert.True(t, outbound.IsBotResponse)
	assert.Equal(t, models.MessageStatusSent, outbound.Status)

	var appointments []models.Appointment
	require.NoError(t, f.db.Where("tenant_id = ?", tn.ID).Find(&appointments).Error)
	require.Len(t, appointments, 1)
	a := appointments[0]
	require.NotNil(t, a.ServiceID)
	assert.Equal(t, corte.ID, *a.ServiceID)
	require.NotNil(t, a.ContactID)
	assert.Equal(t, result.ContactID, *a.ContactID)
	assert.Equal(t, "2026-03-15", a.Date)
	assert.Equal(t, "14:00", a.Time)
	assert.Equal(t, models.AppointmentStatusScheduled, a.Status)
	assert.Equal(t, models.BookedByBot, a.BookedBy)

	var conversation models.Conversation
	require.NoError(t, f.db.First(&conversation, "id = ?", result.ConversationID).Error)
	assert.Equal(t, "Perfeito, vou agendar!", conversation.LastMessagePreview)
	assert.Equal(t, 1, conversation.UnreadCount)
	assert.True(t, conversation.LastMessageAt.Equal(tuesdayMorning(t)), "last_message_at = %s", conversation.LastMessageAt)

	logs, err := f.audit.GetLogs(context.Background(), audit.AuditFilter{TenantID: &tn.ID, Action: audit.ActionAppointmentCreate})
	require.NoError(t, err)
	assert.EqualValues(t, 1, logs.TotalCount)
}

func TestWebhookService_CapturesBirthDateOnce(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db)
	f.completer.replies = []string{
		"Obrigado! Anotei aqui. [NASCIMENTO:05/09/1990]",
		"Qual serviço você deseja?",
	}
	ctx := context.Background()

	first, err := f.webhook.HandleInbound(ctx, tn.ID.String(), textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.1", "Nasci em 05/09/1990"))
	require.NoError(t, err)
	require.NotNil(t, first.Reply)
	assert.Equal(t, "Obrigado! Anotei aqui.", first.Reply.Text)

	var contact models.Contact
	require.NoError(t, f.db.First(&contact, "id = ?", first.ContactID).Error)
	require.NotNil(t, contact.BirthDate)
	assert.Equal(t, "1990-09-05", contact.BirthDate.Format(DateLayout))

	_, err = f.webhook.HandleInbound(ctx, tn.ID.String(), textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.2", "Quero marcar"))
	require.NoError(t, err)

	require.Len(t, f.completer.calls, 2)
	assert.Contains(t, f.completer.calls[0][0].Content, "[NASCIMENTO:DD/MM/AAAA]")
	assert.NotContains(t, f.completer.calls[1][0].Content, "NASCIMENTO")
}

func TestWebhookService_ConversationSingleton(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db, func(tn *models.Tenant) { tn.BotEnabled = false })
	ctx := context.Background()

	first, err := f.webhook.HandleInbound(ctx, "", textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.1", "Oi"))
	require.NoError(t, err)
	second, err := f.webhook.HandleInbound(ctx, "", textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.2", "Tudo bem?"))
	require.NoError(t, err)

	assert.Equal(t, first.ContactID, second.ContactID)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	var contacts, conversations, messages int64
	f.db.Model(&models.Contact{}).Where("tenant_id = ?", tn.ID).Count(&contacts)
	f.db.Model(&models.Conversation{}).Where("tenant_id = ? AND status = ?", tn.ID, models.ConversationStatusActive).Count(&conversations)
	f.db.Model(&models.Message{}).Where("tenant_id = ?", tn.ID).Count(&messages)
	assert.EqualValues(t, 1, contacts)
	assert.EqualValues(t, 1, conversations)
	assert.EqualValues(t, 2, messages)

	var conversation models.Conversation
	require.NoError(t, f.db.First(&conversation, "id = ?", second.ConversationID).Error)
	assert.Equal(t, 2, conversation.UnreadCount)
	assert.Equal(t, "Tudo bem?", conversation.LastMessagePreview)

	var contact models.Contact
	require.NoError(t, f.db.First(&contact, "id = ?", first.ContactID).Error)
	assert.Equal(t, "João", contact.Name)

	// Bot disabled: stored but never answered.
	assert.Empty(t, f.completer.calls)
	assert.Empty(t, f.sender.Sent())
}

func TestWebhookService_IgnoresPayloadWithoutMessage(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))

	_, err := f.webhook.HandleInbound(context.Background(), "", &whatsapp.WebhookPayload{})
	assert.ErrorIs(t, err, ErrNoMessage)
}

func TestWebhookService_TenantNotFound(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))

	_, err := f.webhook.HandleInbound(context.Background(), uuid.NewString(), textPayload("PN-UNKNOWN", customerPhone, "wamid.1", "Oi"))
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestWebhookService_DuplicateDelivery(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db)
	f.completer.replies = []string{"Olá! Como posso ajudar?"}
	ctx := context.Background()
	payload := textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.same", "Oi")

	_, err := f.webhook.HandleInbound(ctx, "", payload)
	require.NoError(t, err)
	again, err := f.webhook.HandleInbound(ctx, "", payload)
	require.NoError(t, err)

	assert.True(t, again.Duplicate)
	assert.Len(t, f.completer.calls, 1)
	assert.Len(t, f.sender.Sent(), 1)

	var inbound int64
	f.db.Model(&models.Message{}).Where("direction = ?", models.DirectionInbound).Count(&inbound)
	assert.EqualValues(t, 1, inbound)
}

func TestWebhookService_LLMFailureSendsNothing(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db)
	f.completer.err = errors.New("status 500")

	result, err := f.webhook.HandleInbound(context.Background(), "", textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.1", "Oi"))
	require.NoError(t, err)
	assert.Nil(t, result.Reply)
	assert.Empty(t, f.sender.Sent())

	var directions []string
	f.db.Model(&models.Message{}).Pluck("direction", &directions)
	assert.Equal(t, []string{models.DirectionInbound}, directions)
}

func TestWebhookService_SendFailureKeepsReply(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db)
	f.completer.replies = []string{"Olá!"}
	f.sender.err = errors.New("gateway timeout")

	result, err := f.webhook.HandleInbound(context.Background(), "", textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.1", "Oi"))
	require.NoError(t, err)
	require.NotNil(t, result.Reply)
	assert.False(t, result.Reply.Delivered)

	// The outbound row is recorded as sent although delivery failed.
	var outbound models.Message
	require.NoError(t, f.db.Where("direction = ?", models.DirectionOutbound).First(&outbound).Error)
	assert.Equal(t, models.MessageStatusSent, outbound.Status)
	assert.Equal(t, "Olá!", outbound.Text())
}

func TestWebhookService_MissingCredentialsStoresOnly(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db, func(tn *models.Tenant) { tn.WhatsAppAccessToken = "" })

	result, err := f.webhook.HandleInbound(context.Background(), tn.ID.String(), textPayload("", customerPhone, "wamid.1", "Oi"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.MessageID)
	assert.Nil(t, result.Reply)
	assert.Empty(t, f.completer.calls)
}

func TestWebhookService_NonTextMessageStoredWithoutReply(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db)

	payload := textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.img", "")
	payload.Entry[0].Changes[0].Value.Messages[0].Type = "image"
	payload.Entry[0].Changes[0].Value.Messages[0].Text = nil

	result, err := f.webhook.HandleInbound(context.Background(), "", payload)
	require.NoError(t, err)
	assert.Nil(t, result.Reply)
	assert.Empty(t, f.completer.calls)

	var stored models.Message
	require.NoError(t, f.db.First(&stored, "id = ?", result.MessageID).Error)
	assert.Nil(t, stored.Content)
	assert.Equal(t, "image", stored.MessageType)
}

func TestWebhookService_HistoryExcludesCurrentMessage(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db)
	f.completer.replies = []string{"Olá! Como posso ajudar?", "Temos horário às 15:00."}
	ctx := context.Background()

	_, err := f.webhook.HandleInbound(ctx, "", textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.1", "Oi"))
	require.NoError(t, err)
	_, err = f.webhook.HandleInbound(ctx, "", textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.2", "Tem horário amanhã?"))
	require.NoError(t, err)

	require.Len(t, f.completer.calls, 2)
	second := f.completer.calls[1]
	require.Len(t, second, 4)
	assert.Equal(t, llm.RoleSystem, second[0].Role)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "Oi"}, second[1])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "Olá! Como posso ajudar?"}, second[2])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "Tem horário amanhã?"}, second[3])
}

func TestWebhookService_TakenSlotIsNotDoubleBooked(t *testing.T) {
	f := newFixture(t, tuesdayMorning(t))
	tn := testutil.CreateTenant(t, f.db)
	testutil.CreateService(t, f.db, tn.ID, "Corte", 35, 30)
	require.NoError(t, f.db.Create(&models.Appointment{
		TenantID: tn.ID,
		Date:     "2026-03-12",
		Time:     "15:00",
		Status:   models.AppointmentStatusConfirmed,
		BookedBy: models.BookedByManual,
	}).Error)

	f.completer.replies = []string{"Agendado! [AGENDAR:Corte|2026-03-12|15:00]"}

	result, err := f.webhook.HandleInbound(context.Background(), "", textPayload(tn.WhatsAppPhoneNumberID, customerPhone, "wamid.1", "Quinta 15h"))
	require.NoError(t, err)
	require.NotNil(t, result.Reply)
	assert.ErrorIs(t, result.Reply.Execution.AppointmentErr, ErrSlotUnavailable)
	assert.Equal(t, "Agendado!", result.Reply.Text)

	// The occupied slot was advertised to the model.
	assert.True(t, strings.Contains(f.completer.calls[0][0].Content, "- 2026-03-12 às 15:00"))

	var count int64
	f.db.Model(&models.Appointment{}).Where("tenant_id = ? AND date = ? AND time = ?", tn.ID, "2026-03-12", "15:00").Count(&count)
	assert.EqualValues(t, 1, count)

	logs, err := f.audit.GetLogs(context.Background(), audit.AuditFilter{TenantID: &tn.ID, Action: audit.ActionAppointmentRejected})
	require.NoError(t, err)
	assert.EqualValues(t, 1, logs.TotalCount)
}
