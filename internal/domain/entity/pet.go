package entity

// Species enumerates the animal species handled by the service.
type Species string

const (
	SpeciesDog Species = "Perro"
	SpeciesCat Species = "Gato"
)

// Sex enumerates pet sexes.
type Sex string

const (
	SexMale   Sex = "Macho"
	SexFemale Sex = "Hembra"
)

// Pet represents an animal ("mascota") belonging to exactly one resident.
// Pets are stored under vecinos/{residentID}/mascotas, so their IDs are
// unique only within the owning resident's scope.
type Pet struct {
	Name      string  `firestore:"nombre" json:"nombre" validate:"required"`
	Species   Species `firestore:"especie" json:"especie" validate:"required,oneof=Perro Gato"`
	Breed     string  `firestore:"raza" json:"raza"`
	Sex       Sex     `firestore:"sexo" json:"sexo" validate:"required,oneof=Macho Hembra"`
	BirthDate string  `firestore:"fechaNac" json:"fechaNac"` // approximate, YYYY-MM-DD
	Color     string  `firestore:"color" json:"color"`
	Marks     string  `firestore:"señas" json:"señas"`
}
