package form

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	domainerrors "github.com/Manuufarina/gestion-zoonosis/internal/domain/errors"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/persistence/memory"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingCollection records how many writes of each kind went through.
type countingCollection struct {
	repository.Collection[entity.Resident]
	creates int
	updates int
}

func (c *countingCollection) Create(ctx context.Context, data entity.Resident) (string, error) {
	c.creates++

	return c.Collection.Create(ctx, data)
}

func (c *countingCollection) Update(ctx context.Context, id string, data entity.Resident) error {
	c.updates++

	return c.Collection.Update(ctx, id, data)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func residentSchema() Schema[entity.Resident] {
	return NewSchema(func() entity.Resident { return entity.Resident{} })
}

func validResident() entity.Resident {
	return entity.Resident{
		FirstName: "Ana",
		LastName:  "Gomez",
		DNI:       "30111222",
		Address:   "Av. Centenario 77",
		Email:     "ana@example.com",
	}
}

func TestSubmitCreateDispatchesExactlyOneCreate(t *testing.T) {
	col := &countingCollection{Collection: memory.NewCollection[entity.Resident]()}
	ctrl := NewCreate[entity.Resident](col, residentSchema(), testLogger())
	require.Equal(t, ModeCreate, ctrl.Mode())

	ctrl.SetDraft(validResident())
	id, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, col.creates)
	assert.Equal(t, 0, col.updates)
}

func TestSubmitEditDispatchesExactlyOneUpdate(t *testing.T) {
	base := memory.NewCollection[entity.Resident]()
	existingID, err := base.Create(context.Background(), validResident())
	require.NoError(t, err)

	col := &countingCollection{Collection: base}
	existing := repository.Record[entity.Resident]{ID: existingID, Data: validResident()}
	ctrl := NewEdit[entity.Resident](col, residentSchema(), testLogger(), existing)
	require.Equal(t, ModeEdit, ctrl.Mode())

	draft := ctrl.Draft()
	draft.Phone = "4747-1234"
	ctrl.SetDraft(draft)

	id, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, existingID, id)
	assert.Equal(t, 0, col.creates)
	assert.Equal(t, 1, col.updates)

	records, err := base.Documents(context.Background(), repository.Query{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "4747-1234", records[0].Data.Phone)
}

func TestSubmitValidationFailureWritesNothing(t *testing.T) {
	col := &countingCollection{Collection: memory.NewCollection[entity.Resident]()}
	ctrl := NewCreate[entity.Resident](col, residentSchema(), testLogger())

	draft := validResident()
	draft.LastName = ""
	ctrl.SetDraft(draft)

	_, err := ctrl.Submit(context.Background())
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, domainerrors.ErrValidationFailed.ErrorCode(), appErr.ErrorCode())

	// Nothing was applied remotely and the draft is kept for correction.
	assert.Equal(t, 0, col.creates)
	assert.Equal(t, 0, col.updates)
	assert.Equal(t, draft, ctrl.Draft())
}

func TestSubmitEditFailurePreservesDraft(t *testing.T) {
	// Updating an ID the store never assigned fails without a fallback create.
	col := &countingCollection{Collection: memory.NewCollection[entity.Resident]()}
	existing := repository.Record[entity.Resident]{ID: "doc-0404", Data: validResident()}
	ctrl := NewEdit[entity.Resident](col, residentSchema(), testLogger(), existing)

	_, err := ctrl.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, col.creates)
	assert.Equal(t, 1, col.updates)
	assert.Equal(t, validResident(), ctrl.Draft())
}
