package analytics

import (
	"context"

	"github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/cache"
)

// cacheInvalidator drops the cached dashboard aggregates whenever a new attack
// is recorded. It runs as an attack log exporter, off the request path.
type cacheInvalidator struct {
	cache cache.Client
}

func NewCacheInvalidator(cacheClient cache.Client) attacklog.Exporter {
	return &cacheInvalidator{cache: cacheClient}
}

func (c *cacheInvalidator) Name() string {
	return "cache"
}

func (c *cacheInvalidator) Export(ctx context.Context, _ *attacklog.AttackLog) error {
	return c.cache.Delete(ctx, cache.AttackCountKey, cache.AttackDistributionKey)
}

// Close is a no-op; the cache client is owned by the container.
func (c *cacheInvalidator) Close() {}
