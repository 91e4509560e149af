package view

import (
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
)

// Action is the sealed set of events the machine reduces over: user input
// plus the session-state bridge. Actions that reference an entity carry the
// already-materialized record, resolved by the shell from the current
// snapshot, never refetched.
type Action interface{ isAction() }

// SessionChanged bridges the session provider into the machine. A false
// SignedIn unconditionally resets to Login and discards selections.
type SessionChanged struct {
	SignedIn bool
}

// SignInFailed surfaces the generic invalid-credentials message.
type SignInFailed struct{}

// Sidebar navigation.
type (
	ShowDashboard struct{}
	ShowResidents struct{}
	ShowSupplies  struct{}
	ShowUsers     struct{}
	ShowAuditLog  struct{}
	ShowReports   struct{}
)

// SetFilter updates the client-side text filter of the active list screen.
type SetFilter struct {
	Text string
}

// Back returns to the screen the current one was drilled in from.
type Back struct{}

// Resident screens.
type (
	NewResident      struct{}
	EditResident     struct{}
	ResidentSelected struct {
		Resident repository.Record[entity.Resident]
	}
	ResidentSaved struct {
		Resident repository.Record[entity.Resident]
	}
	ResidentDeleted struct{}
)

// Pet screens.
type (
	NewPet      struct{}
	EditPet     struct{}
	PetSelected struct {
		Pet repository.Record[entity.Pet]
	}
	PetSaved struct {
		Pet repository.Record[entity.Pet]
	}
)

// Visit and certificate screens.
type (
	NewVisit        struct{}
	VisitSaved      struct{}
	ShowCertificate struct{}
)

// Supply screens.
type (
	NewSupply      struct{}
	SupplySelected struct {
		Supply repository.Record[entity.Supply]
	}
	SupplySaved struct{}
)

// SetReportRange updates the report date range.
type SetReportRange struct {
	From time.Time
	To   time.Time
}

func (SessionChanged) isAction()   {}
func (SignInFailed) isAction()     {}
func (ShowDashboard) isAction()    {}
func (ShowResidents) isAction()    {}
func (ShowSupplies) isAction()     {}
func (ShowUsers) isAction()        {}
func (ShowAuditLog) isAction()     {}
func (ShowReports) isAction()      {}
func (SetFilter) isAction()        {}
func (Back) isAction()             {}
func (NewResident) isAction()      {}
func (EditResident) isAction()     {}
func (ResidentSelected) isAction() {}
func (ResidentSaved) isAction()    {}
func (ResidentDeleted) isAction()  {}
func (NewPet) isAction()           {}
func (EditPet) isAction()          {}
func (PetSelected) isAction()      {}
func (PetSaved) isAction()         {}
func (NewVisit) isAction()         {}
func (VisitSaved) isAction()       {}
func (ShowCertificate) isAction()  {}
func (NewSupply) isAction()        {}
func (SupplySelected) isAction()   {}
func (SupplySaved) isAction()      {}
func (SetReportRange) isAction()   {}
