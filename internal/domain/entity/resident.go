// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// Resident represents a registered neighbour ("vecino") who owns zero or
// more pets. Residents are root-level documents; their pets live in a
// subcollection scoped by the resident's document ID.
type Resident struct {
	FirstName string `firestore:"nombre" json:"nombre" validate:"required"`
	LastName  string `firestore:"apellido" json:"apellido" validate:"required"`
	DNI       string `firestore:"dni" json:"dni" validate:"required"`
	Phone     string `firestore:"telefono" json:"telefono"`
	Address   string `firestore:"domicilio" json:"domicilio" validate:"required"`
	Email     string `firestore:"email" json:"email" validate:"required,email"`
}

// FullName returns the display name used by lists and exports.
func (r Resident) FullName() string {
	return r.FirstName + " " + r.LastName
}
