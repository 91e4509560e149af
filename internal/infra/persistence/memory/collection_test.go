package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, sub repository.Subscription[T]) repository.SnapshotEvent[T] {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no snapshot event delivered")

		return repository.SnapshotEvent[T]{}
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	ctx := context.Background()
	col := NewCollection[entity.Supply]()
	_, err := col.Create(ctx, entity.Supply{Name: "Vacuna", Stock: 10, MinStock: 5})
	require.NoError(t, err)

	sub, err := col.Subscribe(ctx, repository.Query{})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	ev := receive(t, sub)
	require.NoError(t, ev.Err)
	require.Len(t, ev.Records, 1)
	assert.Equal(t, "Vacuna", ev.Records[0].Data.Name)
}

func TestMutationsBroadcastToEverySubscriber(t *testing.T) {
	ctx := context.Background()
	col := NewCollection[entity.Supply]()

	first, err := col.Subscribe(ctx, repository.Query{})
	require.NoError(t, err)
	defer first.Unsubscribe()
	second, err := col.Subscribe(ctx, repository.Query{})
	require.NoError(t, err)
	defer second.Unsubscribe()

	receive(t, first)
	receive(t, second)

	id, err := col.Create(ctx, entity.Supply{Name: "Guantes", Stock: 50, MinStock: 10})
	require.NoError(t, err)
	assert.Len(t, receive(t, first).Records, 1)
	assert.Len(t, receive(t, second).Records, 1)

	require.NoError(t, col.Update(ctx, id, entity.Supply{Name: "Guantes", Stock: 49, MinStock: 10}))
	assert.Equal(t, 49, receive(t, first).Records[0].Data.Stock)

	require.NoError(t, col.Delete(ctx, id))
	assert.Empty(t, receive(t, first).Records)
}

func TestUnsubscribeClosesEventChannel(t *testing.T) {
	col := NewCollection[entity.Supply]()
	sub, err := col.Subscribe(context.Background(), repository.Query{})
	require.NoError(t, err)

	receive(t, sub)
	sub.Unsubscribe()
	sub.Unsubscribe() // safe to call twice

	_, open := <-sub.Events()
	assert.False(t, open)
}

func TestUpdateAndDeleteUnknownID(t *testing.T) {
	ctx := context.Background()
	col := NewCollection[entity.Supply]()

	assert.ErrorIs(t, col.Update(ctx, "doc-0404", entity.Supply{}), repository.ErrNotFound)
	assert.ErrorIs(t, col.Delete(ctx, "doc-0404"), repository.ErrNotFound)
}

func TestDocumentsOrdering(t *testing.T) {
	ctx := context.Background()
	col := NewCollection[entity.Resident]()
	_, err := col.Create(ctx, entity.Resident{FirstName: "Bruno", LastName: "Perez"})
	require.NoError(t, err)
	_, err = col.Create(ctx, entity.Resident{FirstName: "Ana", LastName: "Gomez"})
	require.NoError(t, err)

	records, err := col.Documents(ctx, repository.Query{OrderBy: "apellido"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Gomez", records[0].Data.LastName)
	assert.Equal(t, "Perez", records[1].Data.LastName)

	desc, err := col.Documents(ctx, repository.Query{OrderBy: "apellido", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, "Perez", desc[0].Data.LastName)
}

func TestVisitRepositoryInRange(t *testing.T) {
	ctx := context.Background()
	repo := NewVisitRepository()

	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 10, 0, 0, 0, time.UTC)
	}

	first := repo.OfPet("vecino-1", "mascota-1")
	_, err := first.Create(ctx, entity.Visit{Date: day(5), Site: entity.SiteCentral, Type: entity.VisitVaccine, Reason: "Antirrábica"})
	require.NoError(t, err)
	_, err = first.Create(ctx, entity.Visit{Date: day(25), Site: entity.SiteCentral, Type: entity.VisitClinical, Reason: "Control"})
	require.NoError(t, err)

	second := repo.OfPet("vecino-2", "mascota-9")
	_, err = second.Create(ctx, entity.Visit{Date: day(10), Site: entity.SiteMobileUnit, Type: entity.VisitNeutering, Reason: "Castración"})
	require.NoError(t, err)

	matched, err := repo.InRange(ctx, day(1), day(15))
	require.NoError(t, err)
	require.Len(t, matched, 2)

	// Cross-parent results come back in date order.
	assert.Equal(t, day(5), matched[0].Data.Date)
	assert.Equal(t, day(10), matched[1].Data.Date)
}
