package dataset

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	paths     []string
	refreshed chan struct{}
	err       error
}

func newFakeStore(dir string) *fakeStore {
	return &fakeStore{
		paths: []string{
			filepath.Join(dir, "buildings.geojson"),
			filepath.Join(dir, "hexagons.geojson"),
		},
		refreshed: make(chan struct{}, 16),
	}
}

func (s *fakeStore) Refresh(context.Context) error {
	s.refreshed <- struct{}{}
	return s.err
}

func (s *fakeStore) Paths() []string {
	return s.paths
}

type harness struct {
	store  *fakeStore
	clock  *clockwork.FakeClock
	events chan fsnotify.Event
	errs   chan error
	done   chan error
	cancel context.CancelFunc
}

const debounce = 500 * time.Millisecond

func startHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:  newFakeStore("/data"),
		clock:  clockwork.NewFakeClock(),
		events: make(chan fsnotify.Event),
		errs:   make(chan error),
		done:   make(chan error, 1),
	}
	w := NewWatcher(h.store, debounce, h.clock, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- w.run(ctx, h.events, h.errs) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-h.done:
		case <-time.After(time.Second):
			t.Error("watcher did not stop")
		}
	})
	return h
}

// sync гарантирует, что предыдущее событие уже обработано циклом
func (h *harness) sync() {
	h.events <- fsnotify.Event{Name: "/data/unrelated.txt", Op: fsnotify.Write}
}

func (h *harness) expectRefresh(t *testing.T) {
	t.Helper()
	select {
	case <-h.store.refreshed:
	case <-time.After(time.Second):
		t.Fatal("expected refresh")
	}
}

func (h *harness) expectNoRefresh(t *testing.T) {
	t.Helper()
	select {
	case <-h.store.refreshed:
		t.Fatal("unexpected refresh")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_RefreshAfterDebounce(t *testing.T) {
	h := startHarness(t)

	h.events <- fsnotify.Event{Name: "/data/buildings.geojson", Op: fsnotify.Write}
	h.sync()

	h.clock.Advance(debounce - time.Millisecond)
	h.expectNoRefresh(t)

	h.clock.Advance(time.Millisecond)
	h.expectRefresh(t)
}

func TestWatcher_BurstCollapsesToOneRefresh(t *testing.T) {
	h := startHarness(t)

	for i := 0; i < 5; i++ {
		h.events <- fsnotify.Event{Name: "/data/hexagons.geojson", Op: fsnotify.Write}
		h.sync()
		h.clock.Advance(debounce / 2)
	}
	h.expectNoRefresh(t)

	h.clock.Advance(debounce / 2)
	h.expectRefresh(t)
	h.expectNoRefresh(t)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	h := startHarness(t)

	h.events <- fsnotify.Event{Name: "/data/notes.md", Op: fsnotify.Write}
	h.events <- fsnotify.Event{Name: "/data/buildings.geojson", Op: fsnotify.Chmod}
	h.sync()

	h.clock.Advance(2 * debounce)
	h.expectNoRefresh(t)
}

func TestWatcher_ReplaceByRename(t *testing.T) {
	h := startHarness(t)

	h.events <- fsnotify.Event{Name: "/data/buildings.geojson", Op: fsnotify.Create}
	h.sync()

	h.clock.Advance(debounce)
	h.expectRefresh(t)
}

func TestWatcher_RefreshErrorKeepsRunning(t *testing.T) {
	h := startHarness(t)
	h.store.err = errors.New("cannot read")

	h.events <- fsnotify.Event{Name: "/data/buildings.geojson", Op: fsnotify.Write}
	h.sync()
	h.clock.Advance(debounce)
	h.expectRefresh(t)

	h.errs <- errors.New("queue overflow")

	h.events <- fsnotify.Event{Name: "/data/buildings.geojson", Op: fsnotify.Write}
	h.sync()
	h.clock.Advance(debounce)
	h.expectRefresh(t)
}

func TestWatcher_StopsOnStop(t *testing.T) {
	store := newFakeStore("/data")
	w := NewWatcher(store, debounce, clockwork.NewFakeClock(), zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- w.run(context.Background(), make(chan fsnotify.Event), make(chan error)) }()

	require.NoError(t, w.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_Start(t *testing.T) {
	dir := t.TempDir()
	store := newFakeStore(dir)
	w := NewWatcher(store, 10*time.Millisecond, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// прогрев при старте
	select {
	case <-store.refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected initial refresh")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
