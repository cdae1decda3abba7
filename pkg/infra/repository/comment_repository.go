package repository

import (
	"context"

	"github.com/NeuralTrust/XSSGuard/pkg/domain"
	"github.com/NeuralTrust/XSSGuard/pkg/domain/comment"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) comment.Repository {
	return &commentRepository{
		db: db,
	}
}

func (r *commentRepository) Save(ctx context.Context, c *comment.Comment) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return domain.NewStoreError("save comment", err)
	}
	return nil
}

func (r *commentRepository) ListRecent(ctx context.Context, limit int) ([]comment.Comment, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidLimit
	}
	var comments []comment.Comment
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, domain.NewStoreError("list recent comments", err)
	}
	return comments, nil
}
