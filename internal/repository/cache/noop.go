package cache

import (
	"context"
	"time"

	"github.com/damage-assessment-api/internal/domain"
	"github.com/damage-assessment-api/internal/domain/repository"
)

// noopCacheRepository - кеш-заглушка, когда Redis выключен: всегда промах
type noopCacheRepository struct{}

func NewNoopCacheRepository() repository.CacheRepository {
	return noopCacheRepository{}
}

func (noopCacheRepository) Get(context.Context, string) ([]byte, error) { return nil, nil }

func (noopCacheRepository) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (noopCacheRepository) Delete(context.Context, string) error { return nil }

func (noopCacheRepository) GetDamageSummary(context.Context, string) (*domain.DamageSummary, error) {
	return nil, nil
}

func (noopCacheRepository) SetDamageSummary(context.Context, string, *domain.DamageSummary, time.Duration) error {
	return nil
}

func (noopCacheRepository) GetHexagonStats(context.Context, string) (*domain.HexagonStats, error) {
	return nil, nil
}

func (noopCacheRepository) SetHexagonStats(context.Context, string, *domain.HexagonStats, time.Duration) error {
	return nil
}
