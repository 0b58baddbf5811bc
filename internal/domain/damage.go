package domain

// Histogram - счётчик зданий по категориям повреждений.
// Порядок категорий сохраняется по первому появлению.
type Histogram struct {
	counts map[int]int
	order  []int
}

// NewHistogram создает пустую гистограмму
func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[int]int)}
}

// Add увеличивает счётчик категории, создавая его при первом появлении
func (h *Histogram) Add(category int) {
	if _, ok := h.counts[category]; !ok {
		h.order = append(h.order, category)
	}
	h.counts[category]++
}

// Counts возвращает копию счётчиков
func (h *Histogram) Counts() map[int]int {
	out := make(map[int]int, len(h.counts))
	for k, v := range h.counts {
		out[k] = v
	}
	return out
}

// Categories возвращает категории в порядке первого появления
func (h *Histogram) Categories() []int {
	out := make([]int, len(h.order))
	copy(out, h.order)
	return out
}

// Sum возвращает сумму всех счётчиков
func (h *Histogram) Sum() int {
	total := 0
	for _, v := range h.counts {
		total += v
	}
	return total
}

// DamageSummary - глобальная сводка по всем зданиям
type DamageSummary struct {
	BuildingCount   map[int]int `json:"building_count"`
	TotalBuildings  int         `json:"total_buildings"`
	CategoriesFound []int       `json:"categories_found"`
}

// HexagonStats - сводка по зданиям внутри одного гексагона
type HexagonStats struct {
	HexagonID               string      `json:"hexagon_id"`
	TotalBuildings          int         `json:"total_buildings"`
	DamageBreakdown         map[int]int `json:"damage_breakdown"`
	DamageCategoriesPresent []int       `json:"damage_categories_present"`
}

// InvalidValue - атрибут фичи, который не удалось привести к категории
type InvalidValue struct {
	FeatureIndex int    `json:"feature_index"`
	Value        string `json:"value"`
}

// DatasetIssues - результат проверки наборов данных
type DatasetIssues struct {
	Buildings            int            `json:"buildings"`
	Hexagons             int            `json:"hexagons"`
	MissingCategoryAttr  bool           `json:"missing_category_attribute,omitempty"`
	MissingHexagonIDAttr bool           `json:"missing_hexagon_id_attribute,omitempty"`
	InvalidCategories    []InvalidValue `json:"invalid_categories,omitempty"`
	DuplicateHexagonIDs  map[string]int `json:"duplicate_hexagon_ids,omitempty"`
	UnsupportedHexagons  []int          `json:"unsupported_hexagon_geometries,omitempty"`
	EmptyBuildings       []int          `json:"empty_building_geometries,omitempty"`
}

// HasProblems сообщает, найдена ли хотя бы одна проблема
func (d *DatasetIssues) HasProblems() bool {
	return d.MissingCategoryAttr ||
		d.MissingHexagonIDAttr ||
		len(d.InvalidCategories) > 0 ||
		len(d.DuplicateHexagonIDs) > 0 ||
		len(d.UnsupportedHexagons) > 0
}
