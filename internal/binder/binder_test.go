package binder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/persistence/memory"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queueDispatcher mimics the application loop: dispatched work runs only
// when the test drains it, so events can be held back deliberately.
type queueDispatcher struct {
	mu    sync.Mutex
	queue []func()
}

func (d *queueDispatcher) Dispatch(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, fn)
}

func (d *queueDispatcher) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.queue)
}

func (d *queueDispatcher) drain() {
	d.mu.Lock()
	queue := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
}

func (d *queueDispatcher) waitAndDrain(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return d.pending() > 0 }, time.Second, time.Millisecond)
	d.drain()
}

func TestBinderSnapshotReplacedWholesale(t *testing.T) {
	ctx := context.Background()
	col := memory.NewCollection[entity.Supply]()
	_, err := col.Create(ctx, entity.Supply{Name: "Vacuna antirrábica", Stock: 10, MinStock: 5})
	require.NoError(t, err)

	dispatcher := &queueDispatcher{}
	b := New[entity.Supply](dispatcher, nil)
	require.Equal(t, StateLoading, b.State())

	b.Bind(ctx, col, repository.Query{})
	dispatcher.waitAndDrain(t)

	require.Equal(t, StateReady, b.State())
	require.Len(t, b.Snapshot(), 1)

	_, err = col.Create(ctx, entity.Supply{Name: "Guantes", Stock: 100, MinStock: 20})
	require.NoError(t, err)
	dispatcher.waitAndDrain(t)

	// The second event replaces the result set, it is not merged in.
	assert.Len(t, b.Snapshot(), 2)
	assert.Equal(t, StateReady, b.State())
}

func TestBinderCloseDiscardsLateEvents(t *testing.T) {
	ctx := context.Background()
	col := memory.NewCollection[entity.Supply]()

	dispatcher := &queueDispatcher{}
	b := New[entity.Supply](dispatcher, nil)
	b.Bind(ctx, col, repository.Query{})
	dispatcher.waitAndDrain(t)
	require.Equal(t, StateReady, b.State())

	// Queue an event, then tear down before it is applied.
	_, err := col.Create(ctx, entity.Supply{Name: "Jeringas", Stock: 3, MinStock: 10})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return dispatcher.pending() > 0 }, time.Second, time.Millisecond)

	b.Close()
	dispatcher.drain()

	assert.Equal(t, StateLoading, b.State())
	assert.Nil(t, b.Snapshot())
}

func TestBinderRebindDropsStaleGeneration(t *testing.T) {
	ctx := context.Background()
	first := memory.NewCollection[entity.Supply]()
	second := memory.NewCollection[entity.Supply]()
	_, err := second.Create(ctx, entity.Supply{Name: "Alcohol", Stock: 8, MinStock: 2})
	require.NoError(t, err)

	dispatcher := &queueDispatcher{}
	b := New[entity.Supply](dispatcher, nil)
	b.Bind(ctx, first, repository.Query{})

	// Hold the first collection's snapshot back and rebind underneath it.
	require.Eventually(t, func() bool { return dispatcher.pending() > 0 }, time.Second, time.Millisecond)
	b.Bind(ctx, second, repository.Query{})
	require.Eventually(t, func() bool { return dispatcher.pending() >= 2 }, time.Second, time.Millisecond)
	dispatcher.drain()

	require.Equal(t, StateReady, b.State())
	require.Len(t, b.Snapshot(), 1)
	assert.Equal(t, "Alcohol", b.Snapshot()[0].Data.Name)
}

type failingCollection struct{}

func (failingCollection) Subscribe(context.Context, repository.Query) (repository.Subscription[entity.Supply], error) {
	return nil, errors.New("backend unavailable")
}

func (failingCollection) Create(context.Context, entity.Supply) (string, error) {
	return "", errors.New("backend unavailable")
}

func (failingCollection) Update(context.Context, string, entity.Supply) error {
	return errors.New("backend unavailable")
}

func (failingCollection) Delete(context.Context, string) error {
	return errors.New("backend unavailable")
}

func (failingCollection) Documents(context.Context, repository.Query) ([]repository.Record[entity.Supply], error) {
	return nil, errors.New("backend unavailable")
}

func TestBinderSubscribeFailureSetsErrorState(t *testing.T) {
	dispatcher := &queueDispatcher{}
	b := New[entity.Supply](dispatcher, nil)

	b.Bind(context.Background(), failingCollection{}, repository.Query{})

	assert.Equal(t, StateError, b.State())
	assert.Error(t, b.Err())
	assert.True(t, b.Bound())
}

func TestBinderFind(t *testing.T) {
	ctx := context.Background()
	col := memory.NewCollection[entity.Supply]()
	id, err := col.Create(ctx, entity.Supply{Name: "Pipetas", Stock: 4, MinStock: 2})
	require.NoError(t, err)

	dispatcher := &queueDispatcher{}
	b := New[entity.Supply](dispatcher, nil)
	b.Bind(ctx, col, repository.Query{})
	dispatcher.waitAndDrain(t)

	rec, ok := b.Find(id)
	require.True(t, ok)
	assert.Equal(t, "Pipetas", rec.Data.Name)

	_, ok = b.Find("doc-9999")
	assert.False(t, ok)
}
