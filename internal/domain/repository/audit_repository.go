package repository

import (
	"context"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
)

// AuditRepository is the append-only logs collection. It deliberately
// exposes no update or delete.
type AuditRepository interface {
	Append(ctx context.Context, entry entity.AuditEntry) (string, error)
	Subscribe(ctx context.Context, q Query) (Subscription[entity.AuditEntry], error)
}
