package handlers

import (
	"context"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/audit"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxAuditPageSize = 200

// AuditQuerier reads the audit trail.
type AuditQuerier interface {
	GetLogs(ctx context.Context, filter audit.AuditFilter) (*audit.AuditLogResponse, error)
}

type AuditHandler struct {
	logs AuditQuerier
}

func NewAuditHandler(logs AuditQuerier) *AuditHandler {
	return &AuditHandler{logs: logs}
}

// ListAuditLogs godoc
// @Summary List audit logs
// @Description Bot actions recorded for a tenant, newest first
// @Tags Tenants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Param action query string false "Action, e.g. appointment.create"
// @Param entity query string false "Entity, e.g. contact"
// @Param entity_id query string false "Entity ID"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(50)
// @Success 200 {object} audit.AuditLogResponse
// @Failure 400 {object} map[string]interface{}
// @Router /tenants/{id}/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid tenant id"})
	}

	filter := audit.AuditFilter{
		TenantID: &tenantID,
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		EntityID: c.Query("entity_id"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 50),
	}
	if filter.PageSize > maxAuditPageSize {
		filter.PageSize = maxAuditPageSize
	}

	if from := c.Query("from"); from != "" {
		start, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be YYYY-MM-DD"})
		}
		filter.StartDate = &start
	}
	if to := c.Query("to"); to != "" {
		day, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be YYYY-MM-DD"})
		}
		end := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}

	resp, err := h.logs.GetLogs(c.UserContext(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load audit logs"})
	}
	return c.JSON(resp)
}
