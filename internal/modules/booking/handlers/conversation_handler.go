package handlers

import (
	"errors"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/core/auth"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/services"
	"github.com/gofiber/fiber/v2"
)

type ConversationHandler struct {
	conversationService *services.ConversationService
}

func NewConversationHandler(conversationService *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// MarkRead godoc
// @Summary Mark conversation as read
// @Description Reset the unread counter of a conversation
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /conversations/{id}/read [post]
func (h *ConversationHandler) MarkRead(c *fiber.Ctx) error {
	err := h.conversationService.MarkRead(c.UserContext(), auth.TenantScope(c), c.Params("id"))
	if errors.Is(err, services.ErrConversationNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "conversation not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
