package http

import (
	"strconv"

	"github.com/NeuralTrust/XSSGuard/pkg/app/analytics"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultAttackListLimit = 50
	maxAttackListLimit     = 500
)

type listAttacksHandler struct {
	logger    *logrus.Logger
	analytics analytics.Service
}

func NewListAttacksHandler(logger *logrus.Logger, svc analytics.Service) Handler {
	return &listAttacksHandler{
		logger:    logger,
		analytics: svc,
	}
}

// Handle @Summary List recent attacks
// @Description Most recent attack logs, newest first
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of entries (default 50, max 500)"
// @Success 200 {array} attacklog.AttackLog
// @Failure 400 {object} response.ErrorResponse "Invalid limit"
// @Failure 500 {object} response.ErrorResponse
// @Router /dashboard/attacks [get]
func (h *listAttacksHandler) Handle(c *fiber.Ctx) error {
	limit := defaultAttackListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxAttackListLimit {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be between 1 and 500"})
		}
		limit = n
	}

	logs, err := h.analytics.Recent(c.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to list attack logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list attacks"})
	}
	return c.Status(fiber.StatusOK).JSON(logs)
}
