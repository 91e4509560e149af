package repository

import "github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"

// ResidentRepository is the root-level vecinos collection.
type ResidentRepository = Collection[entity.Resident]
