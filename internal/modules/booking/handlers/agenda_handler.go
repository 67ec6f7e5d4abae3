package handlers

import (
	"errors"
	"fmt"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/export"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/services"
	"github.com/gofiber/fiber/v2"
)

type AgendaHandler struct {
	agendaService *services.AgendaService
}

func NewAgendaHandler(agendaService *services.AgendaService) *AgendaHandler {
	return &AgendaHandler{agendaService: agendaService}
}

// ExportAgenda godoc
// @Summary Export the tenant agenda
// @Description Download the appointments of a date range as XLSX or PDF
// @Tags Tenants
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Param from query string false "First day (YYYY-MM-DD), default today"
// @Param to query string false "Last day (YYYY-MM-DD), default from + 30 days"
// @Param format query string false "xlsx or pdf" default(xlsx)
// @Success 200 {file} binary
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /tenants/{id}/agenda/export [get]
func (h *AgendaHandler) ExportAgenda(c *fiber.Ctx) error {
	out, err := h.agendaService.Export(c.UserContext(), c.Params("id"), c.Query("from"), c.Query("to"), c.Query("format"))
	switch {
	case errors.Is(err, services.ErrTenantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tenant not found"})
	case errors.Is(err, services.ErrInvalidRange), errors.Is(err, export.ErrUnsupportedFormat):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}

	c.Set(fiber.HeaderContentType, out.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	return c.Send(out.Content)
}
