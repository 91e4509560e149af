package repository

import "github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"

// UserRepository is the root-level usuarios collection.
type UserRepository = Collection[entity.User]
