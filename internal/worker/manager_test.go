package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/damage-assessment-api/internal/worker"
)

type blockingWorker struct {
	*worker.BaseWorker
	started atomic.Bool
	ignore  bool
}

func newBlockingWorker(name string, ignoreStop bool) *blockingWorker {
	return &blockingWorker{BaseWorker: worker.NewBaseWorker(name, zap.NewNop()), ignore: ignoreStop}
}

func (w *blockingWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	if w.ignore {
		<-ctx.Done()
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
	case <-w.StopChan():
	}
	return nil
}

type failingWorker struct {
	*worker.BaseWorker
}

func (w *failingWorker) Start(context.Context) error {
	return errors.New("boom")
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	a := newBlockingWorker("a", false)
	b := newBlockingWorker("b", false)
	m.Register(a)
	m.Register(b)
	m.Register(&failingWorker{BaseWorker: worker.NewBaseWorker("c", zap.NewNop())})

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, func() bool { return a.started.Load() && b.started.Load() }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())

	// повторная остановка безопасна
	assert.NoError(t, a.Stop())
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), 0)
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_ShutdownTimeout(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), 20*time.Millisecond)
	m.Register(newBlockingWorker("stuck", true))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, m.Start(ctx))

	err := m.Stop()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
