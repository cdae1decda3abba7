package http

import (
	"github.com/NeuralTrust/XSSGuard/pkg/app/analytics"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getAttackStatsHandler struct {
	logger    *logrus.Logger
	analytics analytics.Service
}

func NewGetAttackStatsHandler(logger *logrus.Logger, svc analytics.Service) Handler {
	return &getAttackStatsHandler{
		logger:    logger,
		analytics: svc,
	}
}

// Handle @Summary Attack distribution
// @Description Number of recorded attacks per attack type
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Failure 500 {object} response.ErrorResponse
// @Router /dashboard/stats [get]
func (h *getAttackStatsHandler) Handle(c *fiber.Ctx) error {
	dist, err := h.analytics.DistributionByType(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to load attack distribution")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load attack statistics"})
	}
	return c.Status(fiber.StatusOK).JSON(dist)
}
