package repository

import "github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"

// SupplyRepository is the root-level insumos collection.
type SupplyRepository = Collection[entity.Supply]
