package booking

import (
	"time"

	"gorm.io/gorm"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/audit"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/auth"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/export"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/tenant"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/whatsapp"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/handlers"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/services"
)

// Deps are the external collaborators of the booking module.
type Deps struct {
	DB        *gorm.DB
	Senders   whatsapp.SenderFactory
	Completer services.Completer
	Audit     *audit.Service
	Location  *time.Location
}

// Module is the wired booking bot.
type Module struct {
	Resolver      *tenant.Resolver
	Webhook       *services.WebhookService
	Birthday      *services.BirthdayService
	Conversations *services.ConversationService
	Agenda        *services.AgendaService
	Audit         *audit.Service
}

// New wires repositories and services over deps.
func New(deps Deps) *Module {
	tenantRepo := repositories.NewTenantRepo(deps.DB)
	contactRepo := repositories.NewContactRepo(deps.DB)
	conversationRepo := repositories.NewConversationRepo(deps.DB)
	messageRepo := repositories.NewMessageRepo(deps.DB)
	appointmentRepo := repositories.NewAppointmentRepo(deps.DB)
	catalogRepo := repositories.NewCatalogRepo(deps.DB)
	birthdayLogRepo := repositories.NewBirthdayLogRepo(deps.DB)

	recorder := deps.Audit
	if recorder == nil {
		recorder = audit.NewService(deps.DB)
	}

	resolver := tenant.NewResolver(tenantRepo)
	availability := services.NewAvailabilityService(appointmentRepo)
	knowledge := services.NewKnowledgeService(catalogRepo, availability)
	executor := services.NewDirectiveExecutor(contactRepo, appointmentRepo, recorder)
	engine := services.NewEngine(knowledge, executor, deps.Completer, deps.Senders, messageRepo, conversationRepo)

	return &Module{
		Resolver:      resolver,
		Webhook:       services.NewWebhookService(resolver, contactRepo, conversationRepo, messageRepo, engine, deps.Location),
		Birthday:      services.NewBirthdayService(tenantRepo, contactRepo, birthdayLogRepo, conversationRepo, messageRepo, deps.Senders, recorder, deps.Location),
		Conversations: services.NewConversationService(conversationRepo),
		Agenda:        services.NewAgendaService(resolver, appointmentRepo, export.NewService(), deps.Location),
		Audit:         recorder,
	}
}

// Handlers builds the HTTP handlers of the module. A nil jwtService leaves
// the operator routes unauthenticated.
func (m *Module) Handlers(llm handlers.ProviderNamer, webhookTimeout time.Duration, jwtService *auth.JWTService) handlers.Handlers {
	return handlers.Handlers{
		Health:       handlers.NewHealthHandler(llm),
		Webhook:      handlers.NewWebhookHandler(m.Webhook, webhookTimeout),
		Job:          handlers.NewJobHandler(m.Birthday),
		Conversation: handlers.NewConversationHandler(m.Conversations),
		Tenant:       handlers.NewTenantHandler(m.Resolver),
		Agenda:       handlers.NewAgendaHandler(m.Agenda),
		Audit:        handlers.NewAuditHandler(m.Audit),
		JWT:          jwtService,
	}
}
