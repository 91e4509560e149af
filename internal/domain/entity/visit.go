package entity

import "time"

// VisitSite enumerates where an encounter took place.
type VisitSite string

const (
	SiteCentral    VisitSite = "Sede Central"
	SiteMobileUnit VisitSite = "Unidad Móvil"
)

// VisitType enumerates the kinds of medical encounters.
type VisitType string

const (
	VisitClinical  VisitType = "Clínica"
	VisitVaccine   VisitType = "Vacunación"
	VisitNeutering VisitType = "Castración"
)

// Visit represents one medical encounter ("atención") for a pet. Visits are
// stored under vecinos/{residentID}/mascotas/{petID}/atenciones.
type Visit struct {
	Date         time.Time `firestore:"fecha" json:"fecha" validate:"required"`
	Site         VisitSite `firestore:"lugar" json:"lugar" validate:"required,oneof='Sede Central' 'Unidad Móvil'"`
	Type         VisitType `firestore:"tipo" json:"tipo" validate:"required,oneof=Clínica Vacunación Castración"`
	Reason       string    `firestore:"motivo" json:"motivo" validate:"required"`
	Observations string    `firestore:"observaciones" json:"observaciones"`
}

// IsVaccination reports whether the visit belongs on a vaccination certificate.
func (v Visit) IsVaccination() bool {
	return v.Type == VisitVaccine
}
