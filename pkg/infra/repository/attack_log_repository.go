package repository

import (
	"context"

	"github.com/NeuralTrust/XSSGuard/pkg/domain"
	"github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	"gorm.io/gorm"
)

type attackLogRepository struct {
	db *gorm.DB
}

func NewAttackLogRepository(db *gorm.DB) attacklog.Repository {
	return &attackLogRepository{
		db: db,
	}
}

func (r *attackLogRepository) Append(ctx context.Context, entry *attacklog.AttackLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return domain.NewStoreError("append attack log", err)
	}
	return nil
}

func (r *attackLogRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&attacklog.AttackLog{}).Count(&count).Error; err != nil {
		return 0, domain.NewStoreError("count attack logs", err)
	}
	return count, nil
}

func (r *attackLogRepository) DistributionByType(ctx context.Context) (map[string]int64, error) {
	type row struct {
		AttackType string
		Count      int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&attacklog.AttackLog{}).
		Select("attack_type, COUNT(*) AS count").
		Group("attack_type").
		Scan(&rows).Error; err != nil {
		return nil, domain.NewStoreError("attack log distribution", err)
	}
	dist := make(map[string]int64, len(rows))
	for _, r := range rows {
		dist[r.AttackType] = r.Count
	}
	return dist, nil
}

func (r *attackLogRepository) Recent(ctx context.Context, limit int) ([]attacklog.AttackLog, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidLimit
	}
	var logs []attacklog.AttackLog
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, domain.NewStoreError("list recent attack logs", err)
	}
	return logs, nil
}

func (r *attackLogRepository) HighRisk(ctx context.Context, threshold int) ([]attacklog.AttackLog, error) {
	var logs []attacklog.AttackLog
	if err := r.db.WithContext(ctx).
		Where("risk_score >= ?", threshold).
		Order("created_at DESC").
		Order("id DESC").
		Find(&logs).Error; err != nil {
		return nil, domain.NewStoreError("list high risk attack logs", err)
	}
	return logs, nil
}
