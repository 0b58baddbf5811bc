package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/damage-assessment-api/internal/worker"
)

// Refresher - хранилище снапшотов, которое умеет перечитать изменившиеся файлы
type Refresher interface {
	Refresh(ctx context.Context) error
	Paths() []string
}

// Watcher следит за файлами наборов данных и заранее обновляет снапшоты,
// чтобы первый запрос после замены файла не платил за загрузку
type Watcher struct {
	*worker.BaseWorker
	store    Refresher
	debounce time.Duration
	clock    clockwork.Clock
}

// NewWatcher создает новый Watcher. clock == nil означает реальные часы.
func NewWatcher(store Refresher, debounce time.Duration, clock clockwork.Clock, logger *zap.Logger) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("dataset-watcher", logger),
		store:      store,
		debounce:   debounce,
		clock:      clock,
	}
}

// Start подписывается на каталоги с файлами и блокируется до остановки
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	// каталог, а не файл: замена через rename иначе теряет подписку
	dirs := make(map[string]struct{})
	for _, p := range w.store.Paths() {
		dir := filepath.Dir(p)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.Logger().Info("Watching dataset directory", zap.String("dir", dir))
	}

	// прогрев, чтобы первый запрос не ждал разбора файла
	if err := w.store.Refresh(ctx); err != nil {
		w.Logger().Warn("Initial dataset load failed", zap.Error(err))
	}

	return w.run(ctx, fsw.Events, fsw.Errors)
}

func (w *Watcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	watched := make(map[string]struct{})
	for _, p := range w.store.Paths() {
		watched[filepath.Clean(p)] = struct{}{}
	}

	var (
		timer clockwork.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.StopChan():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, ok := watched[filepath.Clean(ev.Name)]; !ok {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			w.Logger().Debug("Dataset file changed",
				zap.String("path", ev.Name),
				zap.String("op", ev.Op.String()),
			)
			if timer != nil {
				timer.Stop()
			}
			timer = w.clock.NewTimer(w.debounce)
			fire = timer.Chan()

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.Logger().Warn("fsnotify error", zap.Error(err))

		case <-fire:
			timer, fire = nil, nil
			start := w.clock.Now()
			if err := w.store.Refresh(ctx); err != nil {
				w.Logger().Warn("Dataset refresh failed", zap.Error(err))
				continue
			}
			w.Logger().Info("Dataset snapshots refreshed", zap.Duration("took", w.clock.Since(start)))
		}
	}
}
