package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/whatsapp"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// InboundProcessor is the part of the webhook service the handler drives.
type InboundProcessor interface {
	Verify(ctx context.Context, mode, token, challenge, tenantID string) (string, error)
	HandleInbound(ctx context.Context, tenantID string, payload *whatsapp.WebhookPayload) (*services.InboundResult, error)
}

type WebhookHandler struct {
	webhookService InboundProcessor
	timeout        time.Duration
}

func NewWebhookHandler(webhookService InboundProcessor, timeout time.Duration) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		timeout:        timeout,
	}
}

// VerifyWebhook godoc
// @Summary WhatsApp webhook verification
// @Description Echo hub.challenge when hub.verify_token matches the tenant secret
// @Tags Webhook
// @Produce plain
// @Param hub.mode query string false "subscribe"
// @Param hub.verify_token query string true "Tenant verification secret"
// @Param hub.challenge query string true "Challenge to echo"
// @Param tenant query string true "Tenant ID"
// @Success 200 {string} string "challenge"
// @Failure 403 {string} string "Forbidden"
// @Router /webhook/whatsapp [get]
func (h *WebhookHandler) VerifyWebhook(c *fiber.Ctx) error {
	challenge, err := h.webhookService.Verify(
		c.UserContext(),
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
		c.Query("tenant"),
	)
	if err != nil {
		if !errors.Is(err, services.ErrVerificationFailed) {
			log.Error().Err(err).Msg("❌ Webhook verification error")
		}
		return c.Status(fiber.StatusForbidden).SendString("Forbidden")
	}
	return c.Status(fiber.StatusOK).SendString(challenge)
}

// ReceiveWebhook godoc
// @Summary WhatsApp webhook receiver
// @Description Receive message notifications from the WhatsApp Cloud API. Always answers 200.
// @Tags Webhook
// @Accept json
// @Produce json
// @Param tenant query string false "Tenant ID"
// @Param payload body whatsapp.WebhookPayload true "Webhook payload"
// @Success 200 {object} map[string]interface{}
// @Router /webhook/whatsapp [post]
func (h *WebhookHandler) ReceiveWebhook(c *fiber.Ctx) error {
	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		log.Warn().Err(err).Msg("⚠️ Malformed webhook body")
		return c.JSON(fiber.Map{"status": "no_message"})
	}

	ctx := c.UserContext()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.webhookService.HandleInbound(ctx, c.Query("tenant"), &payload)
	switch {
	case errors.Is(err, services.ErrNoMessage):
		return c.JSON(fiber.Map{"status": "no_message"})
	case errors.Is(err, services.ErrTenantNotFound):
		log.Warn().Str("tenant", c.Query("tenant")).Str("phone_number_id", payload.PhoneNumberID()).Msg("⚠️ Webhook for unknown tenant")
		return c.JSON(fiber.Map{"error": "tenant not found"})
	case err != nil:
		log.Error().Err(err).Msg("❌ Failed to process webhook")
		return c.JSON(fiber.Map{"error": "processing failed"})
	}

	resp := fiber.Map{"status": "ok"}
	if result.Duplicate {
		resp["duplicate"] = true
	}
	return c.JSON(resp)
}
