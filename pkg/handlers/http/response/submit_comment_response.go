package response

import (
	"time"

	"github.com/NeuralTrust/XSSGuard/pkg/security/detection"
)

type SubmitCommentResponse struct {
	CommentID string           `json:"comment_id"`
	Original  string           `json:"original"`
	Sanitized string           `json:"sanitized"`
	Context   string           `json:"context"`
	Detection detection.Result `json:"detection"`
	CreatedAt time.Time        `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
