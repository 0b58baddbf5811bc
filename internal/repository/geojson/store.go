package geojson

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/damage-assessment-api/internal/domain"
	"github.com/damage-assessment-api/internal/observability"
	apperrors "github.com/damage-assessment-api/internal/pkg/errors"
	"github.com/damage-assessment-api/internal/pkg/geometry"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Mode - стратегия работы с файлами наборов данных
type Mode string

const (
	// ModeReload - файлы перечитываются на каждый запрос
	ModeReload Mode = "reload"
	// ModeWatch - снапшот держится в памяти и перечитывается при изменении файла
	ModeWatch Mode = "watch"
)

const (
	datasetBuildings = "buildings"
	datasetHexagons  = "hexagons"
)

// StoreConfig - параметры Store
type StoreConfig struct {
	BuildingsPath string
	HexagonsPath  string
	Mode          Mode
	SpatialIndex  bool
}

// racyWindow - запас на грубое разрешение mtime файловой системы
const racyWindow = 2 * time.Second

type fingerprint struct {
	size    int64
	modTime time.Time
}

func (fp fingerprint) key(path string) string {
	return fmt.Sprintf("%s|%d|%d", path, fp.size, fp.modTime.UnixNano())
}

// racy - файл менялся слишком близко к моменту t: перезапись того же размера
// в пределах разрешения mtime не изменит fingerprint
func (fp fingerprint) racy(t time.Time) bool {
	return !fp.modTime.Before(t.Add(-racyWindow))
}

// snapshot - загруженная коллекция; racy-снапшот сверяется с файлом по хэшу
// содержимого, пока mtime не станет достаточно старым
type snapshot struct {
	fp   fingerprint
	coll *domain.FeatureCollection
	racy bool
}

// Store отдаёт коллекции зданий и гексагонов use case'ам
type Store struct {
	cfg     StoreConfig
	loader  *Loader
	metrics *observability.Metrics
	logger  *zap.Logger

	mu        sync.RWMutex
	snapshots map[string]snapshot
	flight    singleflight.Group
}

// NewStore создает новый Store
func NewStore(cfg StoreConfig, loader *Loader, metrics *observability.Metrics, logger *zap.Logger) *Store {
	if cfg.Mode == "" {
		cfg.Mode = ModeWatch
	}
	return &Store{
		cfg:       cfg,
		loader:    loader,
		metrics:   metrics,
		logger:    logger,
		snapshots: make(map[string]snapshot),
	}
}

// Buildings возвращает коллекцию зданий
func (s *Store) Buildings(ctx context.Context) (*domain.FeatureCollection, error) {
	return s.get(ctx, datasetBuildings, s.cfg.BuildingsPath, s.cfg.SpatialIndex)
}

// Hexagons возвращает коллекцию гексагонов
func (s *Store) Hexagons(ctx context.Context) (*domain.FeatureCollection, error) {
	return s.get(ctx, datasetHexagons, s.cfg.HexagonsPath, false)
}

// Paths возвращает пути к обоим файлам
func (s *Store) Paths() []string {
	return []string{s.cfg.BuildingsPath, s.cfg.HexagonsPath}
}

// CheckFiles проверяет наличие файлов; вызывается один раз при старте
func (s *Store) CheckFiles() error {
	for _, p := range s.Paths() {
		info, err := os.Stat(p)
		if err != nil {
			return apperrors.FileNotReadable(p, err)
		}
		if info.IsDir() {
			return apperrors.FileNotReadable(p, fmt.Errorf("is a directory"))
		}
	}
	return nil
}

// Refresh перечитывает изменившиеся файлы. В режиме reload ничего не делает.
func (s *Store) Refresh(ctx context.Context) error {
	if s.cfg.Mode == ModeReload {
		return nil
	}
	if _, err := s.Buildings(ctx); err != nil {
		return err
	}
	_, err := s.Hexagons(ctx)
	return err
}

func (s *Store) get(ctx context.Context, dataset, path string, withIndex bool) (*domain.FeatureCollection, error) {
	if s.cfg.Mode == ModeReload {
		// индекс для одного запроса дороже линейного прохода
		return s.load(ctx, dataset, path, false)
	}

	info, err := os.Stat(path)
	if err != nil {
		s.drop(path)
		return nil, apperrors.FileNotReadable(path, err)
	}
	fp := fingerprint{size: info.Size(), modTime: info.ModTime()}

	s.mu.RLock()
	snap, ok := s.snapshots[path]
	s.mu.RUnlock()
	if ok && snap.fp == fp {
		if !snap.racy {
			return snap.coll, nil
		}
		if s.sameContent(path, snap.coll.Version) {
			if !fp.racy(time.Now()) {
				s.settle(path, snap.coll)
			}
			return snap.coll, nil
		}
	}

	key := fp.key(path)
	if ok && snap.fp == fp {
		// содержимое сменилось без смены fingerprint
		key += "|" + snap.coll.Version
	}
	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		start := time.Now()
		coll, err := s.load(context.WithoutCancel(ctx), dataset, path, withIndex)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if cur, ok := s.snapshots[path]; !ok || !cur.fp.modTime.After(fp.modTime) {
			s.snapshots[path] = snapshot{fp: fp, coll: coll, racy: fp.racy(start)}
		}
		s.mu.Unlock()
		return coll, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.FeatureCollection), nil
}

func (s *Store) load(ctx context.Context, dataset, path string, withIndex bool) (*domain.FeatureCollection, error) {
	start := time.Now()
	coll, err := s.loader.Load(ctx, path)
	if err != nil {
		s.metrics.DatasetLoads.WithLabelValues(dataset, "error").Inc()
		return nil, err
	}

	if withIndex {
		geoms := make([]geom.T, len(coll.Features))
		for i, f := range coll.Features {
			geoms[i] = f.Geometry
		}
		coll.Index = geometry.NewIndex(geoms)
	}

	s.metrics.DatasetLoads.WithLabelValues(dataset, "success").Inc()
	s.metrics.DatasetLoadDuration.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
	s.logger.Info("Dataset snapshot loaded",
		zap.String("dataset", dataset),
		zap.String("path", path),
		zap.Int("features", coll.Len()),
		zap.Bool("indexed", coll.Index != nil),
		zap.Duration("took", time.Since(start)),
	)
	return coll, nil
}

// sameContent сверяет хэш файла с версией снапшота
func (s *Store) sameContent(path, version string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return Version(data) == version
}

func (s *Store) settle(path string, coll *domain.FeatureCollection) {
	s.mu.Lock()
	if cur, ok := s.snapshots[path]; ok && cur.coll == coll {
		cur.racy = false
		s.snapshots[path] = cur
	}
	s.mu.Unlock()
}

func (s *Store) drop(path string) {
	s.mu.Lock()
	delete(s.snapshots, path)
	s.mu.Unlock()
}
