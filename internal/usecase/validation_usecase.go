package usecase

import (
	"context"

	"github.com/damage-assessment-api/internal/domain"
	"github.com/damage-assessment-api/internal/domain/repository"
	"github.com/damage-assessment-api/internal/pkg/geometry"
	"go.uber.org/zap"
)

// maxReportedValues - сколько проблемных значений попадает в отчёт
const maxReportedValues = 20

// ValidationUseCase проверяет наборы данных без агрегации
type ValidationUseCase struct {
	datasets repository.DatasetRepository
	logger   *zap.Logger
	cfg      DamageConfig
}

// NewValidationUseCase создает новый экземпляр ValidationUseCase
func NewValidationUseCase(datasets repository.DatasetRepository, logger *zap.Logger, cfg DamageConfig) *ValidationUseCase {
	return &ValidationUseCase{
		datasets: datasets,
		logger:   logger,
		cfg:      cfg,
	}
}

// Validate загружает оба набора и собирает все найденные проблемы
func (uc *ValidationUseCase) Validate(ctx context.Context) (*domain.DatasetIssues, error) {
	buildings, err := uc.datasets.Buildings(ctx)
	if err != nil {
		return nil, err
	}
	hexagons, err := uc.datasets.Hexagons(ctx)
	if err != nil {
		return nil, err
	}

	issues := &domain.DatasetIssues{
		Buildings: buildings.Len(),
		Hexagons:  hexagons.Len(),
	}

	issues.MissingCategoryAttr = buildings.Len() > 0 && !buildings.HasColumn(uc.cfg.CategoryAttribute)
	for i, f := range buildings.Features {
		if f.Geometry == nil {
			issues.EmptyBuildings = append(issues.EmptyBuildings, i)
		}
		v, ok := f.Lookup(uc.cfg.CategoryAttribute)
		if !ok {
			continue
		}
		if _, err := v.Integer(); err != nil && len(issues.InvalidCategories) < maxReportedValues {
			issues.InvalidCategories = append(issues.InvalidCategories, domain.InvalidValue{
				FeatureIndex: i,
				Value:        v.Text(),
			})
		}
	}

	issues.MissingHexagonIDAttr = hexagons.Len() > 0 && !hexagons.HasColumn(uc.cfg.HexagonIDAttribute)
	counts := make(map[string]int)
	for i, f := range hexagons.Features {
		if _, err := geometry.NewArea(f.Geometry); err != nil {
			issues.UnsupportedHexagons = append(issues.UnsupportedHexagons, i)
		}
		if v, ok := f.Lookup(uc.cfg.HexagonIDAttribute); ok {
			counts[v.Text()]++
		}
	}
	for id, n := range counts {
		if n > 1 {
			if issues.DuplicateHexagonIDs == nil {
				issues.DuplicateHexagonIDs = make(map[string]int)
			}
			issues.DuplicateHexagonIDs[id] = n
		}
	}

	uc.logger.Info("Datasets validated",
		zap.Int("buildings", issues.Buildings),
		zap.Int("hexagons", issues.Hexagons),
		zap.Bool("has_problems", issues.HasProblems()),
	)
	return issues, nil
}
