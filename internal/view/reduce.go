package view

import (
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/form"
)

// Reduce is the pure transition function of the navigation machine. It has
// no side effects; binder and form lifecycles react to the returned screen
// elsewhere. Actions that make no sense on the current screen leave it
// unchanged, waiting for the next user action.
func Reduce(current Screen, action Action) Screen {
	// Session transitions apply from any screen.
	switch a := action.(type) {
	case SessionChanged:
		if !a.SignedIn {
			return Login{}
		}
		if _, ok := current.(Login); ok {
			return Dashboard{}
		}

		return current
	case SignInFailed:
		return Login{Err: "Credenciales inválidas"}
	}

	// Everything below requires a signed-in session.
	if _, ok := current.(Login); ok {
		return current
	}

	switch action.(type) {
	case ShowDashboard:
		return Dashboard{}
	case ShowResidents:
		return ResidentList{}
	case ShowSupplies:
		return SupplyList{}
	case ShowUsers:
		return UserAdmin{}
	case ShowAuditLog:
		return AuditLog{}
	case ShowReports:
		// Default range: the current month so far.
		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		return Reports{From: monthStart, To: now}
	}

	switch s := current.(type) {
	case ResidentList:
		switch a := action.(type) {
		case SetFilter:
			return ResidentList{Filter: a.Text}
		case NewResident:
			return ResidentForm{Mode: form.ModeCreate}
		case ResidentSelected:
			return ResidentDetail{Resident: a.Resident}
		}

	case ResidentForm:
		switch a := action.(type) {
		case ResidentSaved:
			if s.Mode == form.ModeEdit {
				return ResidentDetail{Resident: a.Resident}
			}

			return ResidentList{}
		case Back:
			if s.Mode == form.ModeEdit && s.Existing != nil {
				return ResidentDetail{Resident: *s.Existing}
			}

			return ResidentList{}
		}

	case ResidentDetail:
		switch a := action.(type) {
		case EditResident:
			existing := s.Resident

			return ResidentForm{Mode: form.ModeEdit, Existing: &existing}
		case NewPet:
			return PetForm{Mode: form.ModeCreate, Resident: s.Resident}
		case PetSelected:
			return PetDetail{Resident: s.Resident, Pet: a.Pet}
		case ResidentDeleted, Back:
			return ResidentList{}
		}

	case PetForm:
		switch a := action.(type) {
		case PetSaved:
			if s.Mode == form.ModeEdit {
				return PetDetail{Resident: s.Resident, Pet: a.Pet}
			}

			return ResidentDetail{Resident: s.Resident}
		case Back:
			if s.Mode == form.ModeEdit && s.Existing != nil {
				return PetDetail{Resident: s.Resident, Pet: *s.Existing}
			}

			return ResidentDetail{Resident: s.Resident}
		}

	case PetDetail:
		switch action.(type) {
		case EditPet:
			existing := s.Pet

			return PetForm{Mode: form.ModeEdit, Resident: s.Resident, Existing: &existing}
		case NewVisit:
			return VisitForm{Resident: s.Resident, Pet: s.Pet}
		case ShowCertificate:
			return Certificate{Resident: s.Resident, Pet: s.Pet}
		case Back:
			// The inverse of drilling in: back carries the identical
			// resident record, not a refetched copy.
			return ResidentDetail{Resident: s.Resident}
		}

	case VisitForm:
		switch action.(type) {
		case VisitSaved, Back:
			return PetDetail{Resident: s.Resident, Pet: s.Pet}
		}

	case Certificate:
		switch action.(type) {
		case Back:
			return PetDetail{Resident: s.Resident, Pet: s.Pet}
		}

	case SupplyList:
		switch a := action.(type) {
		case SetFilter:
			return SupplyList{Filter: a.Text}
		case NewSupply:
			return SupplyForm{Mode: form.ModeCreate}
		case SupplySelected:
			existing := a.Supply

			return SupplyForm{Mode: form.ModeEdit, Existing: &existing}
		}

	case SupplyForm:
		switch action.(type) {
		case SupplySaved, Back:
			return SupplyList{}
		}

	case Reports:
		switch a := action.(type) {
		case SetReportRange:
			return Reports{From: a.From, To: a.To}
		case Back:
			return Dashboard{}
		}

	case Dashboard:
		// Dashboard is the root; Back stays put.

	case UserAdmin, AuditLog:
		if _, ok := action.(Back); ok {
			return Dashboard{}
		}
	}

	if _, ok := action.(Back); ok {
		return Dashboard{}
	}

	return current
}
