package http

import (
	"github.com/NeuralTrust/XSSGuard/pkg/app/analytics"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getDashboardHandler struct {
	logger      *logrus.Logger
	analytics   analytics.Service
	recentLimit int
}

func NewGetDashboardHandler(logger *logrus.Logger, svc analytics.Service, recentLimit int) Handler {
	return &getDashboardHandler{
		logger:      logger,
		analytics:   svc,
		recentLimit: recentLimit,
	}
}

// Handle @Summary Dashboard summary
// @Description Total number of recorded attacks and the latest ones
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analytics.Summary
// @Failure 500 {object} response.ErrorResponse
// @Router /dashboard [get]
func (h *getDashboardHandler) Handle(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.Context(), h.recentLimit)
	if err != nil {
		h.logger.WithError(err).Error("failed to build dashboard summary")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load dashboard"})
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}
