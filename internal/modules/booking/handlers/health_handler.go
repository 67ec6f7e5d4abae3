package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// ProviderNamer reports the active provider of an external dependency.
type ProviderNamer interface {
	GetProviderName() string
}

type HealthHandler struct {
	llm ProviderNamer
}

func NewHealthHandler(llm ProviderNamer) *HealthHandler {
	return &HealthHandler{llm: llm}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":   "ok",
		"service":  "booking-api",
		"whatsapp": "WhatsApp Cloud API (Official)",
	}
	if h.llm != nil {
		resp["llm"] = h.llm.GetProviderName()
	}
	return c.JSON(resp)
}
