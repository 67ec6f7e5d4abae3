package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/audit"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/llm"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/tenant"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/whatsapp"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/testutil"
	"gorm.io/gorm"
)

type fakeCompleter struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]llm.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", llm.ErrEmptyResponse
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

type sentMessage struct {
	To   string
	Body string
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]bool
	err     error
}

func (f *fakeSender) SendText(ctx context.Context, to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	if f.failFor[to] {
		return "", errors.New("gateway rejected recipient")
	}
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return "wamid.test", nil
}

func (f *fakeSender) GetProviderName() string {
	return "fake"
}

func (f *fakeSender) Sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fakeSenders struct {
	sender *fakeSender
}

func (f *fakeSenders) ForTenant(creds whatsapp.Credentials) (whatsapp.Sender, error) {
	if !creds.Valid() {
		return nil, whatsapp.ErrMissingCredentials
	}
	return f.sender, nil
}

type fixture struct {
	db        *gorm.DB
	completer *fakeCompleter
	sender    *fakeSender
	audit     *audit.Service
	webhook   *WebhookService
	birthday  *BirthdayService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		db:        db,
		completer: &fakeCompleter{},
		sender:    &fakeSender{failFor: map[string]bool{}},
		audit:     audit.NewService(db),
	}
	senders := &fakeSenders{sender: f.sender}
	loc := testutil.SaoPaulo(t)

	tenantRepo := repositories.NewTenantRepo(db)
	contactRepo := repositories.NewContactRepo(db)
	conversationRepo := repositories.NewConversationRepo(db)
	messageRepo := repositories.NewMessageRepo(db)
	appointmentRepo := repositories.NewAppointmentRepo(db)

	knowledge := NewKnowledgeService(repositories.NewCatalogRepo(db), NewAvailabilityService(appointmentRepo))
	executor := NewDirectiveExecutor(contactRepo, appointmentRepo, f.audit)
	engine := NewEngine(knowledge, executor, f.completer, senders, messageRepo, conversationRepo)

	f.webhook = NewWebhookService(tenant.NewResolver(tenantRepo), contactRepo, conversationRepo, messageRepo, engine, loc).
		WithClock(testutil.Clock(now))
	f.birthday = NewBirthdayService(tenantRepo, contactRepo, repositories.NewBirthdayLogRepo(db), conversationRepo, messageRepo, senders, f.audit, loc).
		WithClock(testutil.Clock(now))
	return f
}

func textPayload(phoneNumberID, from, externalID, body string) *whatsapp.WebhookPayload {
	return &whatsapp.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []whatsapp.WebhookEntry{{
			Changes: []whatsapp.WebhookChange{{
				Field: "messages",
				Value: whatsapp.WebhookValue{
					MessagingProduct: "whatsapp",
					Metadata:         whatsapp.WebhookMetadata{PhoneNumberID: phoneNumberID},
					Contacts: []whatsapp.WebhookContact{{
						WaID:    from,
						Profile: whatsapp.WebhookProfile{Name: "João"},
					}},
					Messages: []whatsapp.CloudAPIMessage{{
						From: from,
						ID:   externalID,
						Type: "text",
						Text: &whatsapp.CloudAPITextMessage{Body: body},
					}},
				},
			}},
		}},
	}
}
