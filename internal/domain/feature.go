package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// ErrNotInteger - значение атрибута нельзя привести к целому числу
var ErrNotInteger = errors.New("value is not integer-coercible")

// AttrKind - тип значения атрибута фичи
type AttrKind int

const (
	AttrNull AttrKind = iota
	AttrInt
	AttrFloat
	AttrString
	AttrBool
)

func (k AttrKind) String() string {
	switch k {
	case AttrInt:
		return "int"
	case AttrFloat:
		return "float"
	case AttrString:
		return "string"
	case AttrBool:
		return "bool"
	default:
		return "null"
	}
}

// AttrValue - значение атрибута с явным тегом типа
type AttrValue struct {
	Kind  AttrKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func NullAttr() AttrValue           { return AttrValue{Kind: AttrNull} }
func IntAttr(v int64) AttrValue     { return AttrValue{Kind: AttrInt, Int: v} }
func FloatAttr(v float64) AttrValue { return AttrValue{Kind: AttrFloat, Float: v} }
func StringAttr(v string) AttrValue { return AttrValue{Kind: AttrString, Str: v} }
func BoolAttr(v bool) AttrValue     { return AttrValue{Kind: AttrBool, Bool: v} }

// IsNull сообщает, что значение отсутствует (JSON null)
func (v AttrValue) IsNull() bool {
	return v.Kind == AttrNull
}

// Text возвращает каноническое текстовое представление значения.
// Целые числа печатаются без дробной части, null - пустая строка.
func (v AttrValue) Text() string {
	switch v.Kind {
	case AttrInt:
		return strconv.FormatInt(v.Int, 10)
	case AttrFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case AttrString:
		return v.Str
	case AttrBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Integer приводит значение к целому числу категории.
// Дробные значения отбрасывают дробную часть, числовые строки парсятся.
func (v AttrValue) Integer() (int, error) {
	switch v.Kind {
	case AttrInt:
		return int(v.Int), nil
	case AttrFloat:
		return truncate(v.Float)
	case AttrString:
		s := strings.TrimSpace(v.Str)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return int(n), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", v.Str, ErrNotInteger)
		}
		return truncate(f)
	default:
		return 0, fmt.Errorf("%s value %q: %w", v.Kind, v.Text(), ErrNotInteger)
	}
}

func truncate(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v: %w", f, ErrNotInteger)
	}
	return int(math.Trunc(f)), nil
}

// Feature - геометрия и набор именованных атрибутов
type Feature struct {
	Geometry   geom.T
	Attributes map[string]AttrValue
}

// Lookup возвращает значение атрибута; false если атрибут отсутствует или равен null
func (f Feature) Lookup(name string) (AttrValue, bool) {
	v, ok := f.Attributes[name]
	if !ok || v.IsNull() {
		return AttrValue{}, false
	}
	return v, true
}

// SpatialIndex отдаёт индексы фич, которые могут лежать внутри заданного bbox
type SpatialIndex interface {
	Candidates(bounds *geom.Bounds) []int
}

// FeatureCollection - упорядоченный набор фич, загруженный из одного файла
type FeatureCollection struct {
	Source   string
	Version  string
	Features []Feature
	// Columns - имена атрибутов в порядке первого появления
	Columns []string
	// Index заполняется только если для коллекции построен пространственный индекс
	Index SpatialIndex
}

// Len возвращает количество фич
func (c *FeatureCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}

// HasColumn проверяет, встречается ли атрибут хотя бы у одной фичи
func (c *FeatureCollection) HasColumn(name string) bool {
	for _, col := range c.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// AvailableColumns возвращает колонки в том виде, как их видит клиент: атрибуты и geometry
func (c *FeatureCollection) AvailableColumns() []string {
	cols := make([]string, 0, len(c.Columns)+1)
	cols = append(cols, c.Columns...)
	return append(cols, "geometry")
}
