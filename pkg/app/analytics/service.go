package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/cache"
	"github.com/sirupsen/logrus"
)

// Summary is the dashboard landing view.
type Summary struct {
	TotalAttacks  int64                 `json:"total_attacks"`
	RecentAttacks []attacklog.AttackLog `json:"recent_attacks"`
}

// Service answers reporting queries over recorded attacks. Count and
// distribution go through the cache when one is configured. Store errors
// are returned unchanged.
type Service interface {
	CountAll(ctx context.Context) (int64, error)
	DistributionByType(ctx context.Context) (map[string]int64, error)
	Recent(ctx context.Context, limit int) ([]attacklog.AttackLog, error)
	HighRisk(ctx context.Context, threshold int) ([]attacklog.AttackLog, error)
	Summary(ctx context.Context, recentLimit int) (*Summary, error)
}

type service struct {
	logger *logrus.Logger
	repo   attacklog.Repository
	cache  cache.Client
	ttl    time.Duration
}

// NewService accepts a nil cache client, in which case every call hits the repository.
func NewService(logger *logrus.Logger, repo attacklog.Repository, cacheClient cache.Client, ttl time.Duration) Service {
	return &service{
		logger: logger,
		repo:   repo,
		cache:  cacheClient,
		ttl:    ttl,
	}
}

func (s *service) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *service) CountAll(ctx context.Context) (int64, error) {
	if s.cacheEnabled() {
		if raw, err := s.cache.Get(ctx, cache.AttackCountKey); err == nil {
			if count, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
				return count, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithError(err).Warn("failed to read attack count from cache")
		}
	}

	count, err := s.repo.CountAll(ctx)
	if err != nil {
		return 0, err
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, cache.AttackCountKey, strconv.FormatInt(count, 10), s.ttl); err != nil {
			s.logger.WithError(err).Warn("failed to cache attack count")
		}
	}
	return count, nil
}

func (s *service) DistributionByType(ctx context.Context) (map[string]int64, error) {
	if s.cacheEnabled() {
		if raw, err := s.cache.Get(ctx, cache.AttackDistributionKey); err == nil {
			var dist map[string]int64
			if jerr := json.Unmarshal([]byte(raw), &dist); jerr == nil {
				return dist, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithError(err).Warn("failed to read attack distribution from cache")
		}
	}

	dist, err := s.repo.DistributionByType(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		data, err := json.Marshal(dist)
		if err == nil {
			err = s.cache.Set(ctx, cache.AttackDistributionKey, string(data), s.ttl)
		}
		if err != nil {
			s.logger.WithError(err).Warn("failed to cache attack distribution")
		}
	}
	return dist, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]attacklog.AttackLog, error) {
	return s.repo.Recent(ctx, limit)
}

func (s *service) HighRisk(ctx context.Context, threshold int) ([]attacklog.AttackLog, error) {
	return s.repo.HighRisk(ctx, threshold)
}

func (s *service) Summary(ctx context.Context, recentLimit int) (*Summary, error) {
	total, err := s.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	return &Summary{TotalAttacks: total, RecentAttacks: recent}, nil
}
