package app

import (
	"github.com/Manuufarina/gestion-zoonosis/internal/binder"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
	"github.com/Manuufarina/gestion-zoonosis/internal/view"
)

// ViewModel is the read-only projection of the shell the delivery layer
// renders. It is rebuilt from scratch on every read; nothing in it aliases
// loop-owned state except the immutable records themselves.
type ViewModel struct {
	Screen     string  `json:"screen"`
	SignedIn   bool    `json:"signedIn"`
	UserEmail  string  `json:"userEmail,omitempty"`
	Role       string  `json:"role,omitempty"`
	LoginError string  `json:"loginError,omitempty"`
	Filter     string  `json:"filter,omitempty"`
	FormMode   string  `json:"formMode,omitempty"`
	ReportFrom string  `json:"reportFrom,omitempty"`
	ReportTo   string  `json:"reportTo,omitempty"`
	Counters   map[string]int `json:"counters,omitempty"`

	Resident *repository.Record[entity.Resident] `json:"resident,omitempty"`
	Pet      *repository.Record[entity.Pet]      `json:"pet,omitempty"`

	Residents *CollectionView[entity.Resident]   `json:"residents,omitempty"`
	Pets      *CollectionView[entity.Pet]        `json:"pets,omitempty"`
	Visits    *CollectionView[entity.Visit]      `json:"visits,omitempty"`
	Supplies  *SupplyCollectionView              `json:"supplies,omitempty"`
	Users     *CollectionView[entity.User]       `json:"users,omitempty"`
	Logs      *CollectionView[entity.AuditEntry] `json:"logs,omitempty"`

	LastExport *ExportInfo `json:"lastExport,omitempty"`
}

// CollectionView is one binder's observable state plus its (filtered)
// snapshot.
type CollectionView[T any] struct {
	State   string                 `json:"state"`
	Error   string                 `json:"error,omitempty"`
	Count   int                    `json:"count"`
	Records []repository.Record[T] `json:"records"`
}

// SupplyRow decorates a supply record with its derived alert status.
type SupplyRow struct {
	ID     string              `json:"id"`
	Data   entity.Supply       `json:"data"`
	Status entity.SupplyStatus `json:"status"`
}

// SupplyCollectionView is the supplies binder with per-row derived status.
type SupplyCollectionView struct {
	State   string      `json:"state"`
	Error   string      `json:"error,omitempty"`
	Count   int         `json:"count"`
	Records []SupplyRow `json:"records"`
}

// ViewModel builds the projection on the loop, so it always reflects a
// fully applied transition.
func (s *Shell) ViewModel() ViewModel {
	var vm ViewModel
	_ = s.call(func() error {
		vm = s.buildViewModel()

		return nil
	})

	return vm
}

func (s *Shell) buildViewModel() ViewModel {
	vm := ViewModel{
		Screen:   s.screen.Name(),
		SignedIn: s.identity != nil,
		Role:     string(s.role),
	}
	if s.identity != nil {
		vm.UserEmail = s.identity.Email
	}
	if s.lastExport != nil {
		info := *s.lastExport
		vm.LastExport = &info
	}

	switch scr := s.screen.(type) {
	case view.Login:
		vm.LoginError = scr.Err
		vm.Role = ""

	case view.Dashboard:
		vm.Counters = map[string]int{
			"vecinos": len(s.residentsBinder.Snapshot()),
			"insumos": len(s.suppliesBinder.Snapshot()),
		}
		vm.Supplies = supplyView(s.suppliesBinder, "")

	case view.ResidentList:
		vm.Filter = scr.Filter
		vm.Residents = collectionView(s.residentsBinder, scr.Filter, residentFields)

	case view.ResidentForm:
		vm.FormMode = string(scr.Mode)
		vm.Resident = scr.Existing

	case view.ResidentDetail:
		resident := scr.Resident
		vm.Resident = &resident
		vm.Pets = collectionView(s.petsBinder, "", nil)

	case view.PetForm:
		vm.FormMode = string(scr.Mode)
		resident := scr.Resident
		vm.Resident = &resident
		vm.Pet = scr.Existing

	case view.PetDetail:
		resident := scr.Resident
		pet := scr.Pet
		vm.Resident = &resident
		vm.Pet = &pet
		vm.Visits = collectionView(s.visitsBinder, "", nil)

	case view.VisitForm:
		resident := scr.Resident
		pet := scr.Pet
		vm.Resident = &resident
		vm.Pet = &pet

	case view.Certificate:
		resident := scr.Resident
		pet := scr.Pet
		vm.Resident = &resident
		vm.Pet = &pet
		vm.Visits = collectionView(s.visitsBinder, "", nil)

	case view.SupplyList:
		vm.Filter = scr.Filter
		vm.Supplies = supplyView(s.suppliesBinder, scr.Filter)

	case view.SupplyForm:
		vm.FormMode = string(scr.Mode)

	case view.UserAdmin:
		vm.Users = collectionView(s.usersBinder, "", nil)

	case view.AuditLog:
		vm.Logs = collectionView(s.logsBinder, "", nil)

	case view.Reports:
		vm.ReportFrom = scr.From.Format("2006-01-02")
		vm.ReportTo = scr.To.Format("2006-01-02")
	}

	return vm
}

// collectionView projects one binder. fieldsOf may be nil when the screen
// carries no filter.
func collectionView[T any](b *binder.Binder[T], filter string, fieldsOf func(T) []string) *CollectionView[T] {
	cv := &CollectionView[T]{State: b.State().String()}
	if err := b.Err(); err != nil {
		cv.Error = err.Error()
	}

	records := b.Snapshot()
	if fieldsOf != nil {
		records = binder.FilterRecords(records, filter, fieldsOf)
	}
	cv.Records = records
	cv.Count = len(records)

	return cv
}

func supplyView(b *binder.Binder[entity.Supply], filter string) *SupplyCollectionView {
	sv := &SupplyCollectionView{State: b.State().String()}
	if err := b.Err(); err != nil {
		sv.Error = err.Error()
	}

	records := binder.FilterRecords(b.Snapshot(), filter, supplyFields)
	sv.Records = make([]SupplyRow, 0, len(records))
	for _, rec := range records {
		sv.Records = append(sv.Records, SupplyRow{ID: rec.ID, Data: rec.Data, Status: rec.Data.Status()})
	}
	sv.Count = len(sv.Records)

	return sv
}

// residentFields are the columns the list filter matches against.
func residentFields(r entity.Resident) []string {
	return []string{r.FirstName, r.LastName, r.DNI, r.Email}
}

func supplyFields(s entity.Supply) []string {
	return []string{s.Name}
}
