package handlers

import (
	"errors"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/tenant"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/whatsapp"
	"github.com/gofiber/fiber/v2"
)

type TenantHandler struct {
	resolver *tenant.Resolver
}

func NewTenantHandler(resolver *tenant.Resolver) *TenantHandler {
	return &TenantHandler{resolver: resolver}
}

// GetWhatsAppQR godoc
// @Summary Get click-to-chat QR code
// @Description PNG QR code of the tenant's wa.me link
// @Tags Tenants
// @Produce png
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Param size query int false "Image size in pixels" default(256)
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /tenants/{id}/whatsapp-qr [get]
func (h *TenantHandler) GetWhatsAppQR(c *fiber.Ctx) error {
	t, err := h.resolver.ResolveByID(c.UserContext(), c.Params("id"))
	if errors.Is(err, tenant.ErrTenantNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tenant not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	size := c.QueryInt("size", 256)
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := whatsapp.GenerateChatQR(t.Phone, size)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "tenant has no phone number"})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
