package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/NeuralTrust/XSSGuard/pkg/domain/attacklog"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/cache"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
)

func TestCacheInvalidator_DeletesAggregates(t *testing.T) {
	redisMock, mockRedis := redismock.NewClientMock()
	mockRedis.ExpectDel(cache.AttackCountKey, cache.AttackDistributionKey).SetVal(2)

	inv := NewCacheInvalidator(cache.NewClientFromRedis(redisMock))

	assert.Equal(t, "cache", inv.Name())
	assert.NoError(t, inv.Export(context.Background(), &attacklog.AttackLog{}))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestCacheInvalidator_PropagatesError(t *testing.T) {
	redisMock, mockRedis := redismock.NewClientMock()
	mockRedis.ExpectDel(cache.AttackCountKey, cache.AttackDistributionKey).SetErr(errors.New("down"))

	inv := NewCacheInvalidator(cache.NewClientFromRedis(redisMock))

	assert.EqualError(t, inv.Export(context.Background(), &attacklog.AttackLog{}), "down")
}
