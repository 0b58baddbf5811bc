package geojson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/damage-assessment-api/internal/domain"
	apperrors "github.com/damage-assessment-api/internal/pkg/errors"
	"github.com/twpayne/go-geom"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

// Loader читает GeoJSON FeatureCollection с диска
type Loader struct {
	logger *zap.Logger
}

// NewLoader создает новый Loader
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load читает файл и возвращает коллекцию фич в порядке файла.
// Любая ошибка чтения или разбора возвращается как FileNotReadable.
func (l *Loader) Load(ctx context.Context, path string) (*domain.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.FileNotReadable(path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Processing(err)
	}

	coll, err := Decode(data)
	if err != nil {
		return nil, apperrors.FileNotReadable(path, err)
	}
	coll.Source = path

	l.logger.Debug("Dataset loaded",
		zap.String("path", path),
		zap.Int("features", coll.Len()),
		zap.Strings("columns", coll.Columns),
		zap.String("version", coll.Version),
	)
	return coll, nil
}

// Version - xxhash содержимого файла
func Version(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Decode разбирает байты GeoJSON FeatureCollection
func Decode(data []byte) (*domain.FeatureCollection, error) {
	var raw rawCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	if raw.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", raw.Type)
	}

	coll := &domain.FeatureCollection{
		Version:  Version(data),
		Features: make([]domain.Feature, 0, len(raw.Features)),
	}
	seen := make(map[string]struct{})

	for i, rf := range raw.Features {
		g, err := decodeGeometry(rf.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		keys, attrs, err := decodeProperties(rf.Properties)
		if err != nil {
			return nil, fmt.Errorf("feature %d properties: %w", i, err)
		}
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				coll.Columns = append(coll.Columns, k)
			}
		}
		coll.Features = append(coll.Features, domain.Feature{Geometry: g, Attributes: attrs})
	}

	return coll, nil
}

func decodeGeometry(raw json.RawMessage) (geom.T, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var g geom.T
	if err := geomjson.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}
	return g, nil
}

// decodeProperties сохраняет порядок ключей, чтобы колонки отдавались в порядке файла
func decodeProperties(raw json.RawMessage) ([]string, map[string]domain.AttrValue, error) {
	attrs := make(map[string]domain.AttrValue)
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, attrs, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected key, got %v", tok)
		}
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("property %q: %w", key, err)
		}
		if _, dup := attrs[key]; !dup {
			keys = append(keys, key)
		}
		attrs[key] = toAttr(v)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, nil, err
	}

	return keys, attrs, nil
}

func toAttr(v interface{}) domain.AttrValue {
	switch t := v.(type) {
	case nil:
		return domain.NullAttr()
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return domain.IntAttr(n)
		}
		f, err := t.Float64()
		if err != nil {
			return domain.StringAttr(t.String())
		}
		return domain.FloatAttr(f)
	case string:
		return domain.StringAttr(t)
	case bool:
		return domain.BoolAttr(t)
	default:
		// вложенные объекты и массивы храним как JSON-текст
		b, err := json.Marshal(t)
		if err != nil {
			return domain.StringAttr(fmt.Sprint(t))
		}
		return domain.StringAttr(string(b))
	}
}
