package repository

import (
	"context"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
)

// VisitRepository scopes visit collections by resident and pet, and offers
// the one cross-parent read the reports screen needs.
type VisitRepository interface {
	// OfPet yields vecinos/{residentID}/mascotas/{petID}/atenciones.
	OfPet(residentID, petID string) Collection[entity.Visit]

	// InRange queries visits across all pets regardless of parent,
	// bounded by date. Used by the date-ranged report.
	InRange(ctx context.Context, from, to time.Time) ([]Record[entity.Visit], error)
}
