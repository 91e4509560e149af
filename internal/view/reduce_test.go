package view

import (
	"testing"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
	"github.com/Manuufarina/gestion-zoonosis/internal/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ana() repository.Record[entity.Resident] {
	return repository.Record[entity.Resident]{
		ID:   "doc-0001",
		Data: entity.Resident{FirstName: "Ana", LastName: "Gomez", DNI: "30111222", Address: "Av. Centenario 77", Email: "ana@example.com"},
	}
}

func rocky() repository.Record[entity.Pet] {
	return repository.Record[entity.Pet]{
		ID:   "doc-0001",
		Data: entity.Pet{Name: "Rocky", Species: entity.SpeciesDog, Sex: entity.SexMale},
	}
}

func TestReduceSignInFlow(t *testing.T) {
	assert.Equal(t, Dashboard{}, Reduce(Login{}, SessionChanged{SignedIn: true}))
	assert.Equal(t, Login{Err: "Credenciales inválidas"}, Reduce(Login{}, SignInFailed{}))

	// Nothing but session actions move the machine off Login.
	assert.Equal(t, Login{}, Reduce(Login{}, ShowResidents{}))
	assert.Equal(t, Login{}, Reduce(Login{}, Back{}))
}

func TestReduceSessionLossResetsFromAnywhere(t *testing.T) {
	screens := []Screen{
		Dashboard{},
		ResidentList{Filter: "gomez"},
		ResidentDetail{Resident: ana()},
		PetDetail{Resident: ana(), Pet: rocky()},
		Certificate{Resident: ana(), Pet: rocky()},
	}
	for _, screen := range screens {
		assert.Equal(t, Login{}, Reduce(screen, SessionChanged{SignedIn: false}), "from %s", screen.Name())
	}

	// A signed-in confirmation while already inside keeps the screen.
	assert.Equal(t, ResidentList{}, Reduce(ResidentList{}, SessionChanged{SignedIn: true}))
}

func TestReduceDrillInAndBackCarryTheSameRecord(t *testing.T) {
	resident := ana()
	pet := rocky()

	detail := Reduce(ResidentList{}, ResidentSelected{Resident: resident})
	require.IsType(t, ResidentDetail{}, detail)

	petDetail := Reduce(detail, PetSelected{Pet: pet})
	require.IsType(t, PetDetail{}, petDetail)

	// Back is the structural inverse: the identical resident record rides
	// back out, not a refetched copy.
	back := Reduce(petDetail, Back{})
	require.IsType(t, ResidentDetail{}, back)
	assert.Equal(t, resident, back.(ResidentDetail).Resident)

	assert.Equal(t, ResidentList{}, Reduce(back, Back{}))
}

func TestReduceFormSaveDestinations(t *testing.T) {
	resident := ana()

	// Create mode returns to the list.
	created := Reduce(ResidentForm{Mode: form.ModeCreate}, ResidentSaved{Resident: resident})
	assert.Equal(t, ResidentList{}, created)

	// Edit mode returns to the detail with the saved record.
	existing := resident
	edited := Reduce(ResidentForm{Mode: form.ModeEdit, Existing: &existing}, ResidentSaved{Resident: resident})
	assert.Equal(t, ResidentDetail{Resident: resident}, edited)

	pet := rocky()
	petCreated := Reduce(PetForm{Mode: form.ModeCreate, Resident: resident}, PetSaved{Pet: pet})
	assert.Equal(t, ResidentDetail{Resident: resident}, petCreated)

	existingPet := pet
	petEdited := Reduce(PetForm{Mode: form.ModeEdit, Resident: resident, Existing: &existingPet}, PetSaved{Pet: pet})
	assert.Equal(t, PetDetail{Resident: resident, Pet: pet}, petEdited)
}

func TestReduceVisitAndCertificate(t *testing.T) {
	resident := ana()
	pet := rocky()
	detail := PetDetail{Resident: resident, Pet: pet}

	assert.Equal(t, VisitForm{Resident: resident, Pet: pet}, Reduce(detail, NewVisit{}))
	assert.Equal(t, detail, Reduce(VisitForm{Resident: resident, Pet: pet}, VisitSaved{}))
	assert.Equal(t, Certificate{Resident: resident, Pet: pet}, Reduce(detail, ShowCertificate{}))
	assert.Equal(t, detail, Reduce(Certificate{Resident: resident, Pet: pet}, Back{}))
}

func TestReduceSupplyScreens(t *testing.T) {
	supply := repository.Record[entity.Supply]{ID: "doc-0001", Data: entity.Supply{Name: "Vacuna", Stock: 2, MinStock: 5}}

	selected := Reduce(SupplyList{}, SupplySelected{Supply: supply})
	require.IsType(t, SupplyForm{}, selected)
	assert.Equal(t, form.ModeEdit, selected.(SupplyForm).Mode)

	assert.Equal(t, SupplyList{}, Reduce(selected, SupplySaved{}))
	assert.Equal(t, SupplyForm{Mode: form.ModeCreate}, Reduce(SupplyList{}, NewSupply{}))
	assert.Equal(t, SupplyList{Filter: "vac"}, Reduce(SupplyList{}, SetFilter{Text: "vac"}))
}

func TestReduceIgnoresActionsForeignToTheScreen(t *testing.T) {
	// A stale action for a screen already left changes nothing; the machine
	// waits for the next user action.
	assert.Equal(t, Dashboard{}, Reduce(Dashboard{}, PetSelected{Pet: rocky()}))
	assert.Equal(t, SupplyList{}, Reduce(SupplyList{}, ResidentDeleted{}))
}

func TestReduceReportsDefaultRange(t *testing.T) {
	screen := Reduce(Dashboard{}, ShowReports{})
	require.IsType(t, Reports{}, screen)

	reports := screen.(Reports)
	now := time.Now()
	assert.Equal(t, now.Year(), reports.From.Year())
	assert.Equal(t, now.Month(), reports.From.Month())
	assert.Equal(t, 1, reports.From.Day())
	assert.False(t, reports.To.Before(reports.From))

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, Reports{From: from, To: to}, Reduce(reports, SetReportRange{From: from, To: to}))
}
