package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/damage-assessment-api/internal/domain"
	"github.com/damage-assessment-api/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client redis.Cmdable
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// GetDamageSummary получает глобальную сводку из кеша
func (r *cacheRepository) GetDamageSummary(ctx context.Context, key string) (*domain.DamageSummary, error) {
	var summary domain.DamageSummary
	ok, err := r.getJSON(ctx, key, &summary)
	if err != nil || !ok {
		return nil, err
	}
	return &summary, nil
}

// SetDamageSummary сохраняет глобальную сводку в кеше
func (r *cacheRepository) SetDamageSummary(ctx context.Context, key string, summary *domain.DamageSummary, ttl time.Duration) error {
	return r.setJSON(ctx, key, summary, ttl)
}

// GetHexagonStats получает сводку по гексагону из кеша
func (r *cacheRepository) GetHexagonStats(ctx context.Context, key string) (*domain.HexagonStats, error) {
	var stats domain.HexagonStats
	ok, err := r.getJSON(ctx, key, &stats)
	if err != nil || !ok {
		return nil, err
	}
	return &stats, nil
}

// SetHexagonStats сохраняет сводку по гексагону в кеше
func (r *cacheRepository) SetHexagonStats(ctx context.Context, key string, stats *domain.HexagonStats, ttl time.Duration) error {
	return r.setJSON(ctx, key, stats, ttl)
}

func (r *cacheRepository) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil // Cache miss
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// битая запись считается промахом и удаляется
		r.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		if err := r.Delete(ctx, key); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (r *cacheRepository) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("Failed to marshal cache value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.Set(ctx, key, data, ttl)
}
