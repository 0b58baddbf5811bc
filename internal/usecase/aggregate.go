package usecase

import (
	"context"
	"fmt"

	"github.com/damage-assessment-api/internal/domain"
	apperrors "github.com/damage-assessment-api/internal/pkg/errors"
	"github.com/damage-assessment-api/internal/pkg/geometry"
)

// Summarize строит глобальную гистограмму. Здания без категории не попадают
// в гистограмму, но учитываются в total_buildings.
func Summarize(ctx context.Context, buildings *domain.FeatureCollection, attribute string) (*domain.DamageSummary, error) {
	if buildings.Len() > 0 && !buildings.HasColumn(attribute) {
		return nil, apperrors.SchemaMismatch(attribute, buildings.AvailableColumns())
	}

	hist := domain.NewHistogram()
	total := 0
	for i, f := range buildings.Features {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, apperrors.Processing(err)
			}
		}
		total++

		v, ok := f.Lookup(attribute)
		if !ok {
			continue
		}
		category, err := v.Integer()
		if err != nil {
			return nil, apperrors.InvalidCategoryValue(attribute, i, err)
		}
		hist.Add(category)
	}

	return &domain.DamageSummary{
		BuildingCount:   hist.Counts(),
		TotalBuildings:  total,
		CategoriesFound: hist.Categories(),
	}, nil
}

// FindHexagons возвращает позиции всех гексагонов с указанным идентификатором.
// Сравнение точное и регистрозависимое по текстовому виду значения.
func FindHexagons(hexagons *domain.FeatureCollection, attribute, id string) []int {
	var matches []int
	for i, f := range hexagons.Features {
		v, ok := f.Lookup(attribute)
		if !ok {
			continue
		}
		if v.Text() == id {
			matches = append(matches, i)
		}
	}
	return matches
}

// AllPositions возвращает позиции всех фич коллекции
func AllPositions(fc *domain.FeatureCollection) []int {
	positions := make([]int, fc.Len())
	for i := range positions {
		positions[i] = i
	}
	return positions
}

// CountWithin считает здания строго внутри области среди перечисленных позиций.
// Пустой список означает, что кандидатов нет.
func CountWithin(
	ctx context.Context,
	area *geometry.Area,
	buildings *domain.FeatureCollection,
	positions []int,
	attribute string,
) (*domain.HexagonStats, error) {
	hist := domain.NewHistogram()
	count := 0

	for n, i := range positions {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, apperrors.Processing(err)
			}
		}
		f := buildings.Features[i]
		inside, err := area.Within(f.Geometry)
		if err != nil {
			return nil, apperrors.Processing(fmt.Errorf("building %d: %w", i, err))
		}
		if !inside {
			continue
		}
		count++

		v, ok := f.Lookup(attribute)
		if !ok {
			continue
		}
		category, err := v.Integer()
		if err != nil {
			return nil, apperrors.InvalidCategoryValue(attribute, i, err)
		}
		hist.Add(category)
	}

	return &domain.HexagonStats{
		TotalBuildings:          count,
		DamageBreakdown:         hist.Counts(),
		DamageCategoriesPresent: hist.Categories(),
	}, nil
}
