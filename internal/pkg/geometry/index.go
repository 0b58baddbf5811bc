package geometry

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
	"github.com/twpayne/go-geom"
)

// entry - центр bbox геометрии и её позиция в коллекции
type entry struct {
	center orb.Point
	idx    int
}

// Point allows entry to satisfy the orb.Pointer interface
func (e entry) Point() orb.Point {
	return e.center
}

// Index - квадродерево по центрам bbox геометрий.
// Если геометрия лежит внутри области, её bbox внутри bbox области,
// а значит и центр bbox - поэтому выборка по bbox области не теряет кандидатов.
type Index struct {
	tree *quadtree.Quadtree
	size int
}

// NewIndex строит индекс; пустые геометрии в индекс не попадают
func NewIndex(geoms []geom.T) *Index {
	entries := make([]entry, 0, len(geoms))
	bound := orb.Bound{}
	for i, g := range geoms {
		if g == nil {
			continue
		}
		b := g.Bounds()
		if b == nil || b.IsEmpty() {
			continue
		}
		c := orb.Point{(b.Min(0) + b.Max(0)) / 2, (b.Min(1) + b.Max(1)) / 2}
		if len(entries) == 0 {
			bound = orb.Bound{Min: c, Max: c}
		} else {
			bound = bound.Extend(c)
		}
		entries = append(entries, entry{center: c, idx: i})
	}

	idx := &Index{size: len(entries)}
	if len(entries) == 0 {
		return idx
	}

	idx.tree = quadtree.New(bound)
	for _, e := range entries {
		// bound построен по тем же точкам, ошибка выхода за границы невозможна
		_ = idx.tree.Add(e)
	}
	return idx
}

// Len возвращает количество проиндексированных геометрий
func (i *Index) Len() int {
	return i.size
}

// Candidates возвращает позиции геометрий, центр bbox которых внутри bounds,
// в порядке исходной коллекции. Пустой результат - не nil.
func (i *Index) Candidates(bounds *geom.Bounds) []int {
	if i.tree == nil || bounds == nil || bounds.IsEmpty() {
		return []int{}
	}
	b := orb.Bound{
		Min: orb.Point{bounds.Min(0), bounds.Min(1)},
		Max: orb.Point{bounds.Max(0), bounds.Max(1)},
	}
	found := i.tree.InBound(nil, b)
	out := make([]int, 0, len(found))
	for _, p := range found {
		out = append(out, p.(entry).idx)
	}
	slices.Sort(out)
	return out
}
