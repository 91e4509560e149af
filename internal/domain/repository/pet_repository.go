package repository

import "github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"

// PetRepository scopes pet collections by their owning resident. Each call
// to OfResident yields the vecinos/{residentID}/mascotas subcollection.
type PetRepository interface {
	OfResident(residentID string) Collection[entity.Pet]
}
