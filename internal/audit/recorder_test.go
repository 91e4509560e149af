package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAppendsAttributedEntry(t *testing.T) {
	repo := memory.NewAuditRepository()
	recorder := NewRecorder(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	stamp := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	recorder.now = func() time.Time { return stamp }

	recorder.Record(context.Background(), "uid-1", ActionCreateResident, map[string]any{"dni": "30111222"})

	entries := repo.Entries(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, "uid-1", entries[0].Data.UID)
	assert.Equal(t, ActionCreateResident, entries[0].Data.Action)
	assert.Equal(t, "30111222", entries[0].Data.Details["dni"])
	assert.Equal(t, stamp, entries[0].Data.Date)
}

func TestRecordDropsUnattributedEntries(t *testing.T) {
	repo := memory.NewAuditRepository()
	recorder := NewRecorder(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	recorder.Record(context.Background(), "", ActionDeleteResident, nil)

	assert.Empty(t, repo.Entries(context.Background()))
}
