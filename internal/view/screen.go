// Package view models the navigation state machine: a tagged union of
// screens, a tagged union of user actions, and a pure transition function.
// Each screen carries exactly the typed payload it needs, so invalid
// combinations (a pet form without its resident) cannot be represented.
package view

import (
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
	"github.com/Manuufarina/gestion-zoonosis/internal/form"
)

// Screen is the sealed set of navigation states.
type Screen interface {
	// Name is the stable identifier exposed to the delivery layer.
	Name() string

	isScreen()
}

// Login is the implicit state before the session provider confirms a
// signed-in identity.
type Login struct {
	// Err holds the single generic sign-in failure message, if any.
	Err string
}

// Dashboard is the initial state after sign-in.
type Dashboard struct{}

// ResidentList shows all residents with a client-side text filter.
type ResidentList struct {
	Filter string
}

// ResidentForm creates or edits a resident. Existing is nil in create mode.
type ResidentForm struct {
	Mode     form.Mode
	Existing *repository.Record[entity.Resident]
}

// ResidentDetail shows one resident and their pets.
type ResidentDetail struct {
	Resident repository.Record[entity.Resident]
}

// PetForm creates or edits a pet of the given resident. Existing is nil in
// create mode.
type PetForm struct {
	Mode     form.Mode
	Resident repository.Record[entity.Resident]
	Existing *repository.Record[entity.Pet]
}

// PetDetail shows one pet and its visit history.
type PetDetail struct {
	Resident repository.Record[entity.Resident]
	Pet      repository.Record[entity.Pet]
}

// VisitForm records a new visit for the given pet.
type VisitForm struct {
	Resident repository.Record[entity.Resident]
	Pet      repository.Record[entity.Pet]
}

// Certificate previews and exports the vaccination certificate of a pet.
type Certificate struct {
	Resident repository.Record[entity.Resident]
	Pet      repository.Record[entity.Pet]
}

// SupplyList shows the stock of supplies with a client-side text filter.
type SupplyList struct {
	Filter string
}

// SupplyForm creates or edits a supply. Existing is nil in create mode.
type SupplyForm struct {
	Mode     form.Mode
	Existing *repository.Record[entity.Supply]
}

// UserAdmin shows the user and role administration screen.
type UserAdmin struct{}

// AuditLog shows the append-only action log.
type AuditLog struct{}

// Reports holds the date range for the cross-resident visit report.
type Reports struct {
	From time.Time
	To   time.Time
}

func (Login) Name() string          { return "login" }
func (Dashboard) Name() string      { return "dashboard" }
func (ResidentList) Name() string   { return "residentsList" }
func (ResidentForm) Name() string   { return "residentForm" }
func (ResidentDetail) Name() string { return "residentDetail" }
func (PetForm) Name() string        { return "petForm" }
func (PetDetail) Name() string      { return "petDetail" }
func (VisitForm) Name() string      { return "visitForm" }
func (Certificate) Name() string    { return "certificate" }
func (SupplyList) Name() string     { return "supplyList" }
func (SupplyForm) Name() string     { return "supplyForm" }
func (UserAdmin) Name() string      { return "userAdmin" }
func (AuditLog) Name() string       { return "auditLog" }
func (Reports) Name() string        { return "reports" }

func (Login) isScreen()          {}
func (Dashboard) isScreen()      {}
func (ResidentList) isScreen()   {}
func (ResidentForm) isScreen()   {}
func (ResidentDetail) isScreen() {}
func (PetForm) isScreen()        {}
func (PetDetail) isScreen()      {}
func (VisitForm) isScreen()      {}
func (Certificate) isScreen()    {}
func (SupplyList) isScreen()     {}
func (SupplyForm) isScreen()     {}
func (UserAdmin) isScreen()      {}
func (AuditLog) isScreen()       {}
func (Reports) isScreen()        {}
