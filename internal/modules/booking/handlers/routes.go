package handlers

import (
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/auth"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups the HTTP handlers of the booking module.
type Handlers struct {
	Health       *HealthHandler
	Webhook      *WebhookHandler
	Job          *JobHandler
	Conversation *ConversationHandler
	Tenant       *TenantHandler
	Agenda       *AgendaHandler
	Audit        *AuditHandler

	// JWT protects the operator routes; nil leaves them open.
	JWT *auth.JWTService
}

// RegisterRoutes mounts the booking routes on app.
func RegisterRoutes(app fiber.Router, h Handlers) {
	app.Get("/health", h.Health.GetHealth)

	// WhatsApp Cloud API webhook, authenticated by the tenant verify token
	app.Get("/webhook/whatsapp", h.Webhook.VerifyWebhook)
	app.Post("/webhook/whatsapp", h.Webhook.ReceiveWebhook)

	// Operator routes
	guard := auth.Middleware(h.JWT)
	ownTenant := auth.RequireTenantParam("id")

	app.Post("/jobs/birthday", guard, auth.RequireRole(auth.RoleAdmin), h.Job.RunBirthday)
	app.Post("/conversations/:id/read", guard, h.Conversation.MarkRead)
	app.Get("/tenants/:id/whatsapp-qr", guard, ownTenant, h.Tenant.GetWhatsAppQR)
	app.Get("/tenants/:id/agenda/export", guard, ownTenant, h.Agenda.ExportAgenda)
	app.Get("/tenants/:id/audit-logs", guard, ownTenant, h.Audit.ListAuditLogs)
}
