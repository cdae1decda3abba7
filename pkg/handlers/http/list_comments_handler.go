package http

import (
	"github.com/NeuralTrust/XSSGuard/pkg/app/comment"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listCommentsHandler struct {
	logger    *logrus.Logger
	submitter comment.Submitter
	limit     int
}

func NewListCommentsHandler(logger *logrus.Logger, submitter comment.Submitter, limit int) Handler {
	return &listCommentsHandler{
		logger:    logger,
		submitter: submitter,
		limit:     limit,
	}
}

// Handle @Summary List recent comments
// @Description Returns the most recent comments in their sanitized form
// @Tags Comments
// @Produce json
// @Success 200 {array} comment.Comment
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/comments [get]
func (h *listCommentsHandler) Handle(c *fiber.Ctx) error {
	comments, err := h.submitter.Recent(c.Context(), h.limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to list comments")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list comments"})
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}
