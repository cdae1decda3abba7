package mocks

import (
	"context"

	"github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Append(ctx context.Context, entry *attacklog.AttackLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) DistributionByType(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	dist, _ := args.Get(0).(map[string]int64)
	return dist, args.Error(1)
}

func (m *MockRepository) Recent(ctx context.Context, limit int) ([]attacklog.AttackLog, error) {
	args := m.Called(ctx, limit)
	logs, _ := args.Get(0).([]attacklog.AttackLog)
	return logs, args.Error(1)
}

func (m *MockRepository) HighRisk(ctx context.Context, threshold int) ([]attacklog.AttackLog, error) {
	args := m.Called(ctx, threshold)
	logs, _ := args.Get(0).([]attacklog.AttackLog)
	return logs, args.Error(1)
}
