package repository

import (
	"context"
	"time"

	"github.com/damage-assessment-api/internal/domain"
)

// CacheRepository определяет методы для работы с кешем результатов
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetDamageSummary получает глобальную сводку; nil, nil при промахе
	GetDamageSummary(ctx context.Context, key string) (*domain.DamageSummary, error)

	// SetDamageSummary сохраняет глобальную сводку
	SetDamageSummary(ctx context.Context, key string, summary *domain.DamageSummary, ttl time.Duration) error

	// GetHexagonStats получает сводку по гексагону; nil, nil при промахе
	GetHexagonStats(ctx context.Context, key string) (*domain.HexagonStats, error)

	// SetHexagonStats сохраняет сводку по гексагону
	SetHexagonStats(ctx context.Context, key string, stats *domain.HexagonStats, ttl time.Duration) error
}
