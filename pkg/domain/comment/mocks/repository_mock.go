package mocks

import (
	"context"

	"github.com/NeuralTrust/XSSGuard/pkg/domain/comment"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, c *comment.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) ListRecent(ctx context.Context, limit int) ([]comment.Comment, error) {
	args := m.Called(ctx, limit)
	comments, _ := args.Get(0).([]comment.Comment)
	return comments, args.Error(1)
}
