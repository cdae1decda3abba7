package http

import (
	"strconv"

	"github.com/NeuralTrust/XSSGuard/pkg/app/analytics"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listHighRiskAttacksHandler struct {
	logger           *logrus.Logger
	analytics        analytics.Service
	defaultThreshold int
}

func NewListHighRiskAttacksHandler(logger *logrus.Logger, svc analytics.Service, defaultThreshold int) Handler {
	return &listHighRiskAttacksHandler{
		logger:           logger,
		analytics:        svc,
		defaultThreshold: defaultThreshold,
	}
}

// Handle @Summary List high risk attacks
// @Description Attack logs with a risk score at or above the threshold, newest first
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param threshold query int false "Minimum risk score (default 8)"
// @Success 200 {array} attacklog.AttackLog
// @Failure 400 {object} response.ErrorResponse "Invalid threshold"
// @Failure 500 {object} response.ErrorResponse
// @Router /dashboard/attacks/high-risk [get]
func (h *listHighRiskAttacksHandler) Handle(c *fiber.Ctx) error {
	threshold := h.defaultThreshold
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "threshold must be a non-negative integer"})
		}
		threshold = n
	}

	logs, err := h.analytics.HighRisk(c.Context(), threshold)
	if err != nil {
		h.logger.WithError(err).WithField("threshold", threshold).Error("failed to list high risk attacks")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list high risk attacks"})
	}
	return c.Status(fiber.StatusOK).JSON(logs)
}
