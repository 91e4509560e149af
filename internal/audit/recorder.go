// Package audit appends one log entry per create, update, delete and export.
// The log is write-only from the application's point of view; failures to
// append are logged and never block the action that triggered them.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
)

// Action labels, matching the wire values of the logs collection.
const (
	ActionCreateResident = "crear_vecino"
	ActionUpdateResident = "editar_vecino"
	ActionDeleteResident = "eliminar_vecino"
	ActionCreatePet      = "crear_mascota"
	ActionUpdatePet      = "editar_mascota"
	ActionCreateVisit    = "crear_atencion"
	ActionCreateSupply   = "crear_insumo"
	ActionUpdateSupply   = "editar_insumo"
	ActionUpdateUser     = "editar_usuario"
	ActionExportCert     = "exportar_certificado"
	ActionExportReport   = "exportar_reporte"
)

// Recorder writes audit entries on behalf of the acting identity.
type Recorder struct {
	repo   repository.AuditRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder builds a recorder over the logs collection.
func NewRecorder(repo repository.AuditRepository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger, now: time.Now}
}

// Record appends one entry. Entries without an acting identity are dropped
// with a warning; an unattributed audit row is worse than none.
func (r *Recorder) Record(ctx context.Context, uid, action string, details map[string]any) {
	if uid == "" {
		r.logger.Warn("audit entry without acting identity dropped", slog.String("action", action))

		return
	}

	entry := entity.AuditEntry{
		UID:     uid,
		Action:  action,
		Details: details,
		Date:    r.now(),
	}
	if _, err := r.repo.Append(ctx, entry); err != nil {
		r.logger.Error("failed to append audit entry",
			slog.String("action", action), slog.Any("error", err))
	}
}
