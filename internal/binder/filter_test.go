package binder

import (
	"testing"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	assert.True(t, Match("", "anything"))
	assert.True(t, Match("gom", "Ana", "Gomez"))
	assert.True(t, Match("GOM", "gomez"))
	assert.False(t, Match("perez", "Ana", "Gomez"))
}

func TestFilterRecordsPreservesOrder(t *testing.T) {
	records := []repository.Record[entity.Resident]{
		{ID: "doc-0001", Data: entity.Resident{FirstName: "Ana", LastName: "Gomez", DNI: "30111222"}},
		{ID: "doc-0002", Data: entity.Resident{FirstName: "Bruno", LastName: "Perez", DNI: "28333444"}},
		{ID: "doc-0003", Data: entity.Resident{FirstName: "Carla", LastName: "Gomez", DNI: "33555666"}},
	}
	fields := func(r entity.Resident) []string {
		return []string{r.FirstName, r.LastName, r.DNI}
	}

	filtered := FilterRecords(records, "gomez", fields)
	require.Len(t, filtered, 2)
	assert.Equal(t, "doc-0001", filtered[0].ID)
	assert.Equal(t, "doc-0003", filtered[1].ID)

	// The empty filter returns the snapshot as-is.
	assert.Len(t, FilterRecords(records, "", fields), 3)

	// The input is never modified.
	assert.Len(t, records, 3)
}

func TestFilterRecordsMatchesByDNI(t *testing.T) {
	records := []repository.Record[entity.Resident]{
		{ID: "doc-0001", Data: entity.Resident{FirstName: "Ana", LastName: "Gomez", DNI: "30111222"}},
	}
	fields := func(r entity.Resident) []string {
		return []string{r.FirstName, r.LastName, r.DNI}
	}

	assert.Len(t, FilterRecords(records, "30111", fields), 1)
	assert.Empty(t, FilterRecords(records, "99", fields))
}
