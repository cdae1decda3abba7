package comment

import "context"

type Repository interface {
	Save(ctx context.Context, c *Comment) error
	ListRecent(ctx context.Context, limit int) ([]Comment, error)
}
