package geojson_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/damage-assessment-api/internal/observability"
	apperrors "github.com/damage-assessment-api/internal/pkg/errors"
	"github.com/damage-assessment-api/internal/repository/geojson"
)

const hexagonsFixture = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]},
     "properties": {"id": "H1"}}
  ]
}`

const smallBuildings = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"Category_i":1}}
]}`

func newStore(t *testing.T, mode geojson.Mode, index bool) (*geojson.Store, string, string) {
	t.Helper()
	dir := t.TempDir()
	buildings := writeFile(t, dir, "buildings.geojson", buildingsFixture)
	hexagons := writeFile(t, dir, "hexagons.geojson", hexagonsFixture)

	store := geojson.NewStore(geojson.StoreConfig{
		BuildingsPath: buildings,
		HexagonsPath:  hexagons,
		Mode:          mode,
		SpatialIndex:  index,
	}, geojson.NewLoader(zap.NewNop()), observability.NewMetricsForTesting(), zap.NewNop())
	return store, buildings, hexagons
}

func TestStore_WatchMode(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshot is reused while file is unchanged", func(t *testing.T) {
		store, _, _ := newStore(t, geojson.ModeWatch, true)

		first, err := store.Buildings(ctx)
		require.NoError(t, err)
		second, err := store.Buildings(ctx)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.NotNil(t, first.Index)
	})

	t.Run("hexagons are not indexed", func(t *testing.T) {
		store, _, _ := newStore(t, geojson.ModeWatch, true)

		hexagons, err := store.Hexagons(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, hexagons.Len())
		assert.Nil(t, hexagons.Index)
	})

	t.Run("index disabled", func(t *testing.T) {
		store, _, _ := newStore(t, geojson.ModeWatch, false)

		buildings, err := store.Buildings(ctx)
		require.NoError(t, err)
		assert.Nil(t, buildings.Index)
	})

	t.Run("changed file is reloaded", func(t *testing.T) {
		store, buildingsPath, _ := newStore(t, geojson.ModeWatch, true)

		before, err := store.Buildings(ctx)
		require.NoError(t, err)
		require.Equal(t, 4, before.Len())

		require.NoError(t, os.WriteFile(buildingsPath, []byte(smallBuildings), 0o644))
		require.NoError(t, store.Refresh(ctx))

		after, err := store.Buildings(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, after.Len())
		assert.NotEqual(t, before.Version, after.Version)
	})

	t.Run("same-size rewrite with unchanged mtime is reloaded", func(t *testing.T) {
		store, buildingsPath, _ := newStore(t, geojson.ModeWatch, true)
		require.NoError(t, os.WriteFile(buildingsPath, []byte(smallBuildings), 0o644))
		info, err := os.Stat(buildingsPath)
		require.NoError(t, err)

		before, err := store.Buildings(ctx)
		require.NoError(t, err)

		rewritten := strings.Replace(smallBuildings, `"Category_i":1`, `"Category_i":7`, 1)
		require.Len(t, rewritten, len(smallBuildings))
		require.NoError(t, os.WriteFile(buildingsPath, []byte(rewritten), 0o644))
		require.NoError(t, os.Chtimes(buildingsPath, info.ModTime(), info.ModTime()))

		after, err := store.Buildings(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, before.Version, after.Version)
		v, ok := after.Features[0].Lookup("Category_i")
		require.True(t, ok)
		n, err := v.Integer()
		require.NoError(t, err)
		assert.Equal(t, 7, n)

		again, err := store.Buildings(ctx)
		require.NoError(t, err)
		assert.Same(t, after, again)
	})

	t.Run("removed file fails", func(t *testing.T) {
		store, buildingsPath, _ := newStore(t, geojson.ModeWatch, true)

		_, err := store.Buildings(ctx)
		require.NoError(t, err)
		require.NoError(t, os.Remove(buildingsPath))

		_, err = store.Buildings(ctx)
		assert.True(t, errors.Is(err, apperrors.ErrFileNotReadable))
		assert.Error(t, store.Refresh(ctx))
	})

	t.Run("concurrent readers share one snapshot", func(t *testing.T) {
		store, _, _ := newStore(t, geojson.ModeWatch, true)

		first, err := store.Buildings(ctx)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				coll, err := store.Buildings(ctx)
				assert.NoError(t, err)
				assert.Same(t, first, coll)
			}()
		}
		wg.Wait()
	})
}

func TestStore_ReloadMode(t *testing.T) {
	ctx := context.Background()
	store, buildingsPath, _ := newStore(t, geojson.ModeReload, true)

	first, err := store.Buildings(ctx)
	require.NoError(t, err)
	second, err := store.Buildings(ctx)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Nil(t, first.Index)
	assert.NoError(t, store.Refresh(ctx))

	require.NoError(t, os.WriteFile(buildingsPath, []byte(smallBuildings), 0o644))
	third, err := store.Buildings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Len())
}

func TestStore_CheckFiles(t *testing.T) {
	store, _, _ := newStore(t, geojson.ModeWatch, false)
	assert.NoError(t, store.CheckFiles())
	assert.Len(t, store.Paths(), 2)

	missing := geojson.NewStore(geojson.StoreConfig{
		BuildingsPath: filepath.Join(t.TempDir(), "buildings.geojson"),
		HexagonsPath:  filepath.Join(t.TempDir(), "hexagons.geojson"),
	}, geojson.NewLoader(zap.NewNop()), observability.NewMetricsForTesting(), zap.NewNop())
	assert.True(t, errors.Is(missing.CheckFiles(), apperrors.ErrFileNotReadable))

	dir := geojson.NewStore(geojson.StoreConfig{
		BuildingsPath: t.TempDir(),
		HexagonsPath:  t.TempDir(),
	}, geojson.NewLoader(zap.NewNop()), observability.NewMetricsForTesting(), zap.NewNop())
	assert.Error(t, dir.CheckFiles())
}
