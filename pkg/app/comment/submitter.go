package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NeuralTrust/XSSGuard/pkg/app/security"
	domainComment "github.com/NeuralTrust/XSSGuard/pkg/domain/comment"
	"github.com/NeuralTrust/XSSGuard/pkg/security/sanitization"
	"github.com/sirupsen/logrus"
)

var ErrEmptyComment = errors.New("comment cannot be empty")

type Submission struct {
	Text     string
	Context  sanitization.Context
	Metadata security.Metadata
}

type Result struct {
	Outcome security.Outcome
	Comment *domainComment.Comment
}

// Submitter runs a comment through the security pipeline and stores it.
type Submitter interface {
	Submit(ctx context.Context, s Submission) (*Result, error)
	Recent(ctx context.Context, limit int) ([]domainComment.Comment, error)
}

type submitter struct {
	logger    *logrus.Logger
	processor security.Processor
	repo      domainComment.Repository
}

func NewSubmitter(logger *logrus.Logger, processor security.Processor, repo domainComment.Repository) Submitter {
	return &submitter{
		logger:    logger,
		processor: processor,
		repo:      repo,
	}
}

func (s *submitter) Submit(ctx context.Context, sub Submission) (*Result, error) {
	if strings.TrimSpace(sub.Text) == "" {
		return nil, ErrEmptyComment
	}

	outcome := s.processor.Process(ctx, sub.Text, sub.Context, sub.Metadata)

	c := &domainComment.Comment{
		RawText:       sub.Text,
		SanitizedText: outcome.Sanitized,
		Context:       outcome.Context,
		IsFlagged:     outcome.Detection.IsSuspicious,
	}
	if err := s.repo.Save(ctx, c); err != nil {
		s.logger.WithError(err).Error("failed to save comment")
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	return &Result{Outcome: outcome, Comment: c}, nil
}

func (s *submitter) Recent(ctx context.Context, limit int) ([]domainComment.Comment, error) {
	return s.repo.ListRecent(ctx, limit)
}
