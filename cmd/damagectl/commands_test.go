package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/damage-assessment-api/internal/pkg/errors"
)

const testBuildings = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"Category_i":3}},
  {"type":"Feature","geometry":{"type":"Point","coordinates":[5,5]},"properties":{"Category_i":3}},
  {"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"Category_i":5}}
]}`

const testHexagons = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]},"properties":{"id":"H1"}},
  {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[4,4],[6,4],[6,6],[4,6],[4,4]]]},"properties":{"id":"H2"}}
]}`

func dataDir(t *testing.T, buildings, hexagons string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "buildings.geojson"), []byte(buildings), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hexagons.geojson"), []byte(hexagons), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (map[string]interface{}, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	// несуществующий env-файл, чтобы окружение разработчика не влияло на тест
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))

	err := cmd.Execute()
	var body map[string]interface{}
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &body), out.String())
	}
	return body, err
}

func TestSummaryCommand(t *testing.T) {
	dir := dataDir(t, testBuildings, testHexagons)

	body, err := run(t, "summary", "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, float64(3), body["total_buildings"])
	assert.Equal(t, map[string]interface{}{"3": float64(2), "5": float64(1)}, body["building_count"])
}

func TestHexagonCommand(t *testing.T) {
	dir := dataDir(t, testBuildings, testHexagons)

	body, err := run(t, "hexagon", "H1", "--data-dir", dir, "--pretty")
	require.NoError(t, err)
	assert.Equal(t, "H1", body["hexagon_id"])
	assert.Equal(t, float64(2), body["total_buildings"])

	_, err = run(t, "hexagon", "H99", "--data-dir", dir)
	assert.True(t, errors.Is(err, apperrors.ErrHexagonNotFound))

	_, err = run(t, "hexagon", "--data-dir", dir)
	assert.Error(t, err, "id argument is required")
}

func TestValidateCommand(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		dir := dataDir(t, testBuildings, testHexagons)

		body, err := run(t, "validate", "--data-dir", dir)
		require.NoError(t, err)
		assert.Equal(t, float64(3), body["buildings"])
		assert.Equal(t, float64(2), body["hexagons"])
	})

	t.Run("duplicates", func(t *testing.T) {
		dup := `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]},"properties":{"id":"H1"}},
  {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[4,4],[6,4],[6,6],[4,6],[4,4]]]},"properties":{"id":"H1"}}
]}`
		dir := dataDir(t, testBuildings, dup)

		body, err := run(t, "validate", "--data-dir", dir)
		assert.True(t, errors.Is(err, errProblemsFound))
		assert.Equal(t, map[string]interface{}{"H1": float64(2)}, body["duplicate_hexagon_ids"])
	})

	t.Run("custom attribute", func(t *testing.T) {
		dir := dataDir(t, testBuildings, testHexagons)

		body, err := run(t, "validate", "--data-dir", dir, "--category-attr", "damage")
		assert.True(t, errors.Is(err, errProblemsFound))
		assert.Equal(t, true, body["missing_category_attribute"])
	})

	t.Run("missing files", func(t *testing.T) {
		_, err := run(t, "validate", "--data-dir", t.TempDir())
		assert.True(t, errors.Is(err, apperrors.ErrFileNotReadable))
	})
}
