package repository

import (
	"context"

	"github.com/damage-assessment-api/internal/domain"
)

// DatasetRepository отдаёт коллекции фич, загруженные с диска
type DatasetRepository interface {
	// Buildings возвращает здания; Index заполнен, если индекс включён
	Buildings(ctx context.Context) (*domain.FeatureCollection, error)

	// Hexagons возвращает гексагоны
	Hexagons(ctx context.Context) (*domain.FeatureCollection, error)
}
