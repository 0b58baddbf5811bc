package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/damage-assessment-api/internal/domain"
	"github.com/damage-assessment-api/internal/domain/repository"
	"github.com/damage-assessment-api/internal/observability"
	apperrors "github.com/damage-assessment-api/internal/pkg/errors"
	"github.com/damage-assessment-api/internal/pkg/geometry"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ctxCheckEvery - как часто проход по зданиям проверяет дедлайн
const ctxCheckEvery = 1024

// DamageConfig - параметры агрегации
type DamageConfig struct {
	CategoryAttribute  string
	HexagonIDAttribute string
	ScanTimeout        time.Duration
	MaxConcurrentScans int
	ResultCacheTTL     time.Duration
}

// DamageUseCase считает гистограммы категорий повреждений
type DamageUseCase struct {
	datasets  repository.DatasetRepository
	cacheRepo repository.CacheRepository
	metrics   *observability.Metrics
	logger    *zap.Logger
	cfg       DamageConfig
	scans     *semaphore.Weighted
}

// NewDamageUseCase создает новый экземпляр DamageUseCase
func NewDamageUseCase(
	datasets repository.DatasetRepository,
	cacheRepo repository.CacheRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
	cfg DamageConfig,
) *DamageUseCase {
	if cfg.MaxConcurrentScans <= 0 {
		cfg.MaxConcurrentScans = 1
	}
	return &DamageUseCase{
		datasets:  datasets,
		cacheRepo: cacheRepo,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		scans:     semaphore.NewWeighted(int64(cfg.MaxConcurrentScans)),
	}
}

// GetDamageSummary возвращает гистограмму категорий по всем зданиям
func (uc *DamageUseCase) GetDamageSummary(ctx context.Context) (*domain.DamageSummary, error) {
	ctx, cancel := uc.withDeadline(ctx)
	defer cancel()

	buildings, err := uc.datasets.Buildings(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("damage:summary:%s:%s", buildings.Version, uc.cfg.CategoryAttribute)
	if cached := uc.cachedSummary(ctx, key); cached != nil {
		return cached, nil
	}

	release, err := uc.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	summary, err := Summarize(ctx, buildings, uc.cfg.CategoryAttribute)
	uc.metrics.ScanDuration.WithLabelValues("summary").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("Damage summary computed",
		zap.Int("total_buildings", summary.TotalBuildings),
		zap.Ints("categories", summary.CategoriesFound),
		zap.Duration("took", time.Since(start)),
	)

	if err := uc.cacheRepo.SetDamageSummary(ctx, key, summary, uc.cfg.ResultCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache damage summary", zap.Error(err))
	}
	return summary, nil
}

// GetHexagonStats возвращает гистограмму категорий по зданиям внутри гексагона.
// Если гексагон не найден, здания не загружаются.
func (uc *DamageUseCase) GetHexagonStats(ctx context.Context, hexagonID string) (*domain.HexagonStats, error) {
	ctx, cancel := uc.withDeadline(ctx)
	defer cancel()

	hexagons, err := uc.datasets.Hexagons(ctx)
	if err != nil {
		return nil, err
	}

	hexagon, err := uc.findHexagon(hexagons, hexagonID)
	if err != nil {
		return nil, err
	}

	area, err := geometry.NewArea(hexagon.Geometry)
	if err != nil {
		return nil, apperrors.Processing(fmt.Errorf("hexagon %s: %w", hexagonID, err))
	}

	buildings, err := uc.datasets.Buildings(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("damage:hexagon:%s:%s:%s:%s",
		hexagons.Version, buildings.Version, uc.cfg.CategoryAttribute, hexagonID)
	if cached := uc.cachedHexagonStats(ctx, key); cached != nil {
		return cached, nil
	}

	release, err := uc.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	stats, strategy, scanned, err := uc.scanHexagon(ctx, area, buildings)
	uc.metrics.ScanDuration.WithLabelValues("hexagon").Observe(time.Since(start).Seconds())
	uc.metrics.BuildingsScanned.WithLabelValues(strategy).Add(float64(scanned))
	if err != nil {
		return nil, err
	}
	stats.HexagonID = hexagonID

	uc.logger.Debug("Hexagon stats computed",
		zap.String("hexagon_id", hexagonID),
		zap.String("strategy", strategy),
		zap.Int("scanned", scanned),
		zap.Int("total_buildings", stats.TotalBuildings),
		zap.Duration("took", time.Since(start)),
	)

	if err := uc.cacheRepo.SetHexagonStats(ctx, key, stats, uc.cfg.ResultCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache hexagon stats", zap.Error(err))
	}
	return stats, nil
}

// findHexagon ищет первый гексагон с точным совпадением идентификатора
func (uc *DamageUseCase) findHexagon(hexagons *domain.FeatureCollection, hexagonID string) (*domain.Feature, error) {
	if hexagons.Len() > 0 && !hexagons.HasColumn(uc.cfg.HexagonIDAttribute) {
		return nil, apperrors.SchemaMismatch(uc.cfg.HexagonIDAttribute, hexagons.AvailableColumns())
	}

	matches := FindHexagons(hexagons, uc.cfg.HexagonIDAttribute, hexagonID)
	if len(matches) == 0 {
		return nil, apperrors.HexagonNotFound(hexagonID)
	}
	if len(matches) > 1 {
		uc.logger.Warn("Duplicate hexagon id, using first match",
			zap.String("hexagon_id", hexagonID),
			zap.Int("matches", len(matches)),
			zap.Int("feature_index", matches[0]),
		)
	}
	return &hexagons.Features[matches[0]], nil
}

func (uc *DamageUseCase) scanHexagon(
	ctx context.Context,
	area *geometry.Area,
	buildings *domain.FeatureCollection,
) (*domain.HexagonStats, string, int, error) {
	if buildings.Index != nil {
		candidates := buildings.Index.Candidates(area.Bounds())
		stats, err := CountWithin(ctx, area, buildings, candidates, uc.cfg.CategoryAttribute)
		return stats, "index", len(candidates), err
	}
	stats, err := CountWithin(ctx, area, buildings, AllPositions(buildings), uc.cfg.CategoryAttribute)
	return stats, "linear", buildings.Len(), err
}

func (uc *DamageUseCase) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.cfg.ScanTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.cfg.ScanTimeout)
}

// acquire занимает слот для CPU-тяжёлого прохода по зданиям
func (uc *DamageUseCase) acquire(ctx context.Context) (func(), error) {
	if err := uc.scans.Acquire(ctx, 1); err != nil {
		return nil, apperrors.Processing(fmt.Errorf("waiting for scan slot: %w", err))
	}
	uc.metrics.ScansInFlight.Inc()
	return func() {
		uc.metrics.ScansInFlight.Dec()
		uc.scans.Release(1)
	}, nil
}

func (uc *DamageUseCase) cachedSummary(ctx context.Context, key string) *domain.DamageSummary {
	cached, err := uc.cacheRepo.GetDamageSummary(ctx, key)
	switch {
	case err != nil:
		uc.logger.Warn("Failed to get damage summary from cache", zap.Error(err))
		uc.metrics.ResultCache.WithLabelValues("summary", "error").Inc()
		return nil
	case cached == nil:
		uc.metrics.ResultCache.WithLabelValues("summary", "miss").Inc()
		return nil
	}
	uc.metrics.ResultCache.WithLabelValues("summary", "hit").Inc()
	return cached
}

func (uc *DamageUseCase) cachedHexagonStats(ctx context.Context, key string) *domain.HexagonStats {
	cached, err := uc.cacheRepo.GetHexagonStats(ctx, key)
	switch {
	case err != nil:
		uc.logger.Warn("Failed to get hexagon stats from cache", zap.Error(err))
		uc.metrics.ResultCache.WithLabelValues("hexagon", "error").Inc()
		return nil
	case cached == nil:
		uc.metrics.ResultCache.WithLabelValues("hexagon", "miss").Inc()
		return nil
	}
	uc.metrics.ResultCache.WithLabelValues("hexagon", "hit").Inc()
	return cached
}
