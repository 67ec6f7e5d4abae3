package handlers

import (
	"context"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// BirthdayRunner runs the birthday notifier once.
type BirthdayRunner interface {
	Run(ctx context.Context) (*services.BirthdaySummary, error)
}

type JobHandler struct {
	birthday BirthdayRunner
}

func NewJobHandler(birthday BirthdayRunner) *JobHandler {
	return &JobHandler{birthday: birthday}
}

// RunBirthday godoc
// @Summary Run the birthday notifier
// @Description Send today's birthday greetings for every enabled tenant
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /jobs/birthday [post]
func (h *JobHandler) RunBirthday(c *fiber.Ctx) error {
	summary, err := h.birthday.Run(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("❌ Birthday job failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"sent":    summary.Sent,
		"tenants": summary.Tenants,
		"failed":  summary.Failed,
	})
}
