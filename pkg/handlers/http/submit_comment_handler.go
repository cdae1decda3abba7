package http

import (
	"errors"

	"github.com/NeuralTrust/XSSGuard/pkg/app/comment"
	"github.com/NeuralTrust/XSSGuard/pkg/app/security"
	"github.com/NeuralTrust/XSSGuard/pkg/handlers/http/request"
	"github.com/NeuralTrust/XSSGuard/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type submitCommentHandler struct {
	logger    *logrus.Logger
	submitter comment.Submitter
}

func NewSubmitCommentHandler(logger *logrus.Logger, submitter comment.Submitter) Handler {
	return &submitCommentHandler{
		logger:    logger,
		submitter: submitter,
	}
}

// Handle @Summary Submit a comment
// @Description Scans the comment for XSS signatures, records suspicious input and returns the sanitized rendering
// @Tags Comments
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param comment body request.SubmitCommentRequest true "Comment"
// @Success 201 {object} response.SubmitCommentResponse
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 500 {object} response.ErrorResponse "Failed to store comment"
// @Router /api/v1/comments [post]
func (h *submitCommentHandler) Handle(c *fiber.Ctx) error {
	var req request.SubmitCommentRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Debug("failed to parse comment request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := h.submitter.Submit(c.Context(), comment.Submission{
		Text:    req.Comment,
		Context: req.SanitizationContext(),
		Metadata: security.Metadata{
			SourceAddress: c.IP(),
			ClientAgent:   c.Get(fiber.HeaderUserAgent),
		},
	})
	if err != nil {
		if errors.Is(err, comment.ErrEmptyComment) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store comment"})
	}

	return c.Status(fiber.StatusCreated).JSON(response.SubmitCommentResponse{
		CommentID: res.Comment.ID.String(),
		Original:  res.Outcome.Original,
		Sanitized: res.Outcome.Sanitized,
		Context:   res.Outcome.Context,
		Detection: res.Outcome.Detection,
		CreatedAt: res.Comment.CreatedAt,
	})
}
