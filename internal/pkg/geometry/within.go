package geometry

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geos"
)

// Area - полигональная область (гексагон), в которой проверяется вхождение.
// Предикат считает GEOS через подготовленную геометрию; у каждой области
// свой контекст GEOS.
type Area struct {
	bounds *geom.Bounds
	ctx    *geos.Context
	prep   *geos.PrepGeom
}

// NewArea строит область из Polygon или MultiPolygon
func NewArea(g geom.T) (*Area, error) {
	switch t := g.(type) {
	case *geom.Polygon:
		if t.NumLinearRings() == 0 {
			return nil, fmt.Errorf("area geometry has no rings")
		}
	case *geom.MultiPolygon:
		rings := 0
		for i := 0; i < t.NumPolygons(); i++ {
			rings += t.Polygon(i).NumLinearRings()
		}
		if rings == 0 {
			return nil, fmt.Errorf("area geometry has no rings")
		}
	case nil:
		return nil, fmt.Errorf("area geometry is empty")
	default:
		return nil, fmt.Errorf("unsupported area geometry %T", g)
	}

	ctx := geos.NewContext()
	gg, err := toGEOS(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("area geometry: %w", err)
	}
	return &Area{
		bounds: g.Bounds(),
		ctx:    ctx,
		prep:   gg.Prepare(),
	}, nil
}

// Bounds возвращает bbox области
func (a *Area) Bounds() *geom.Bounds {
	return a.bounds
}

// ContainsBounds проверяет, что bbox b целиком лежит в bbox области
func (a *Area) ContainsBounds(b *geom.Bounds) bool {
	if b == nil || b.IsEmpty() {
		return false
	}
	return b.Min(0) >= a.bounds.Min(0) && b.Max(0) <= a.bounds.Max(0) &&
		b.Min(1) >= a.bounds.Min(1) && b.Max(1) <= a.bounds.Max(1)
}

// Within - строгий предикат "within": ни одна точка g не лежит снаружи области,
// и хотя бы одна внутренняя точка g лежит во внутренности области.
// Касание только границей вхождением не считается.
// Ошибка возвращается, если GEOS не смог разобрать или сравнить геометрию.
func (a *Area) Within(g geom.T) (ok bool, err error) {
	if g == nil || !a.ContainsBounds(g.Bounds()) {
		return false, nil
	}

	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("within: %v", r)
		}
	}()

	gg, err := toGEOS(a.ctx, g)
	if err != nil {
		return false, err
	}
	defer gg.Destroy()
	if gg.IsEmpty() {
		return false, nil
	}
	return a.prep.Contains(gg), nil
}

// toGEOS переводит геометрию go-geom в GEOS через WKB
func toGEOS(ctx *geos.Context, g geom.T) (*geos.Geom, error) {
	data, err := wkb.Marshal(g, wkb.NDR)
	if err != nil {
		return nil, fmt.Errorf("encode wkb: %w", err)
	}
	gg, err := ctx.NewGeomFromWKB(data)
	if err != nil {
		return nil, fmt.Errorf("decode wkb: %w", err)
	}
	return gg, nil
}
