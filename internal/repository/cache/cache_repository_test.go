package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/damage-assessment-api/internal/config"
	"github.com/damage-assessment-api/internal/domain"
)

func TestNoopCacheRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewNoopCacheRepository()

	require.NoError(t, repo.SetDamageSummary(ctx, "k", &domain.DamageSummary{TotalBuildings: 1}, time.Minute))

	summary, err := repo.GetDamageSummary(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, summary, "noop cache never hits")

	stats, err := repo.GetHexagonStats(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, stats)

	data, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCacheRepository_UnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	repo := &cacheRepository{client: client, logger: zap.NewNop()}
	ctx := context.Background()

	summary, err := repo.GetDamageSummary(ctx, "damage:summary:x")
	assert.Error(t, err)
	assert.Nil(t, summary)

	err = repo.SetHexagonStats(ctx, "damage:hexagon:x", &domain.HexagonStats{HexagonID: "H1"}, time.Minute)
	assert.Error(t, err)
}

func TestNewRedis_ConnectionRefused(t *testing.T) {
	_, err := NewRedis(&config.RedisConfig{Host: "127.0.0.1", Port: 1}, zap.NewNop())
	assert.Error(t, err)
}
