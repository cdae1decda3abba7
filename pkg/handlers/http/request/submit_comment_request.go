package request

import (
	"errors"
	"strings"

	"github.com/NeuralTrust/XSSGuard/pkg/security/sanitization"
)

const DefaultContext = "html"

type SubmitCommentRequest struct {
	Comment string `json:"comment" form:"comment"` // @required
	Context string `json:"context" form:"context"`
}

func (r *SubmitCommentRequest) Validate() error {
	if strings.TrimSpace(r.Comment) == "" {
		return errors.New("comment is required")
	}
	return nil
}

// SanitizationContext defaults to html when the client sent none.
func (r *SubmitCommentRequest) SanitizationContext() sanitization.Context {
	if strings.TrimSpace(r.Context) == "" {
		return sanitization.ParseContext(DefaultContext)
	}
	return sanitization.ParseContext(r.Context)
}
