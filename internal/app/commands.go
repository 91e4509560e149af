package app

import (
	"context"
	"time"

	"log/slog"

	"github.com/Manuufarina/gestion-zoonosis/internal/audit"
	"github.com/Manuufarina/gestion-zoonosis/internal/binder"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	domainerrors "github.com/Manuufarina/gestion-zoonosis/internal/domain/errors"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
	"github.com/Manuufarina/gestion-zoonosis/internal/export"
	"github.com/Manuufarina/gestion-zoonosis/internal/form"
	"github.com/Manuufarina/gestion-zoonosis/internal/view"
)

// SignIn exchanges credentials for a session. Success arrives through the
// session bridge; here only the failure path touches the machine.
func (s *Shell) SignIn(ctx context.Context, email, password string) error {
	if err := s.session.SignIn(ctx, email, password); err != nil {
		s.Dispatch(func() {
			s.apply(view.SignInFailed{})
		})

		return domainerrors.ErrInvalidCredentials
	}

	return nil
}

// SignOut terminates the session. The bridge resets the machine to Login.
func (s *Shell) SignOut() {
	s.session.SignOut()
}

func (s *Shell) requireSession() error {
	if s.identity == nil {
		return domainerrors.ErrNotSignedIn
	}

	return nil
}

func (s *Shell) uid() string {
	if s.identity == nil {
		return ""
	}

	return s.identity.UID
}

// Navigate jumps to one of the sidebar sections.
func (s *Shell) Navigate(section string) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}

		var action view.Action
		switch section {
		case "dashboard":
			action = view.ShowDashboard{}
		case "residents":
			action = view.ShowResidents{}
		case "supplies":
			action = view.ShowSupplies{}
		case "users":
			if s.role != entity.RoleAdmin {
				return domainerrors.ErrInvalidTransition.WithDetails("solo administradores")
			}
			action = view.ShowUsers{}
		case "audit":
			action = view.ShowAuditLog{}
		case "reports":
			action = view.ShowReports{}
		default:
			return domainerrors.ErrUnknownAction.WithDetails(section)
		}

		s.apply(action)

		return nil
	})
}

// SetFilter updates the client-side filter of the active list screen.
func (s *Shell) SetFilter(text string) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		switch s.screen.(type) {
		case view.ResidentList, view.SupplyList:
			s.apply(view.SetFilter{Text: text})

			return nil
		default:
			return domainerrors.ErrInvalidTransition
		}
	})
}

// Back pops to the screen the current one was drilled in from.
func (s *Shell) Back() error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		s.apply(view.Back{})

		return nil
	})
}

// OpenResident drills into a resident from the list. The record travels
// with the screen; the detail never refetches it.
func (s *Shell) OpenResident(id string) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		if _, ok := s.screen.(view.ResidentList); !ok {
			return domainerrors.ErrInvalidTransition
		}
		rec, ok := s.residentsBinder.Find(id)
		if !ok {
			return domainerrors.ErrRecordNotFound
		}
		s.apply(view.ResidentSelected{Resident: rec})

		return nil
	})
}

// NewResidentForm opens the resident form in create mode.
func (s *Shell) NewResidentForm() error {
	return s.screenAction(func() (view.Action, error) {
		if _, ok := s.screen.(view.ResidentList); !ok {
			return nil, domainerrors.ErrInvalidTransition
		}

		return view.NewResident{}, nil
	})
}

// EditResidentForm opens the resident form seeded with the shown record.
func (s *Shell) EditResidentForm() error {
	return s.screenAction(func() (view.Action, error) {
		if _, ok := s.screen.(view.ResidentDetail); !ok {
			return nil, domainerrors.ErrInvalidTransition
		}

		return view.EditResident{}, nil
	})
}

// SubmitResidentForm replaces the draft and submits it: exactly one write,
// then one audit entry.
func (s *Shell) SubmitResidentForm(ctx context.Context, data entity.Resident) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		if _, ok := s.screen.(view.ResidentForm); !ok || s.residentForm == nil {
			return domainerrors.ErrInvalidTransition
		}

		ctrl := s.residentForm
		ctrl.SetDraft(data)
		id, err := ctrl.Submit(ctx)
		if err != nil {
			return err
		}

		action := audit.ActionCreateResident
		if ctrl.Mode() == form.ModeEdit {
			action = audit.ActionUpdateResident
		}
		s.recorder.Record(ctx, s.uid(), action, map[string]any{
			"vecinoId": id,
			"nombre":   data.FullName(),
			"dni":      data.DNI,
		})

		s.apply(view.ResidentSaved{Resident: repository.Record[entity.Resident]{ID: id, Data: data}})

		return nil
	})
}

// DeleteResident removes the shown resident and everything underneath:
// each pet's visits, the pets, then the resident document itself. The
// store does not cascade, so the shell walks the tree bottom-up.
func (s *Shell) DeleteResident(ctx context.Context) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		scr, ok := s.screen.(view.ResidentDetail)
		if !ok {
			return domainerrors.ErrInvalidTransition
		}

		residentID := scr.Resident.ID
		pets, err := s.pets.OfResident(residentID).Documents(ctx, repository.Query{})
		if err != nil {
			return err
		}
		for _, pet := range pets {
			visitCol := s.visits.OfPet(residentID, pet.ID)
			visits, err := visitCol.Documents(ctx, repository.Query{})
			if err != nil {
				return err
			}
			for _, visit := range visits {
				if err := visitCol.Delete(ctx, visit.ID); err != nil {
					return err
				}
			}
			if err := s.pets.OfResident(residentID).Delete(ctx, pet.ID); err != nil {
				return err
			}
		}
		if err := s.residents.Delete(ctx, residentID); err != nil {
			return err
		}

		s.recorder.Record(ctx, s.uid(), audit.ActionDeleteResident, map[string]any{
			"vecinoId": residentID,
			"nombre":   scr.Resident.Data.FullName(),
			"mascotas": len(pets),
		})

		s.apply(view.ResidentDeleted{})

		return nil
	})
}

// OpenPet drills into a pet from the resident detail.
func (s *Shell) OpenPet(id string) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		if _, ok := s.screen.(view.ResidentDetail); !ok {
			return domainerrors.ErrInvalidTransition
		}
		rec, ok := s.petsBinder.Find(id)
		if !ok {
			return domainerrors.ErrRecordNotFound
		}
		s.apply(view.PetSelected{Pet: rec})

		return nil
	})
}

// NewPetForm opens the pet form in create mode for the shown resident.
func (s *Shell) NewPetForm() error {
	return s.screenAction(func() (view.Action, error) {
		if _, ok := s.screen.(view.ResidentDetail); !ok {
			return nil, domainerrors.ErrInvalidTransition
		}

		return view.NewPet{}, nil
	})
}

// EditPetForm opens the pet form seeded with the shown pet.
func (s *Shell) EditPetForm() error {
	return s.screenAction(func() (view.Action, error) {
		if _, ok := s.screen.(view.PetDetail); !ok {
			return nil, domainerrors.ErrInvalidTransition
		}

		return view.EditPet{}, nil
	})
}

// SubmitPetForm replaces the pet draft and submits it.
func (s *Shell) SubmitPetForm(ctx context.Context, data entity.Pet) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		if _, ok := s.screen.(view.PetForm); !ok || s.petForm == nil {
			return domainerrors.ErrInvalidTransition
		}

		ctrl := s.petForm
		ctrl.SetDraft(data)
		id, err := ctrl.Submit(ctx)
		if err != nil {
			return err
		}

		action := audit.ActionCreatePet
		if ctrl.Mode() == form.ModeEdit {
			action = audit.ActionUpdatePet
		}
		s.recorder.Record(ctx, s.uid(), action, map[string]any{
			"mascotaId": id,
			"nombre":    data.Name,
			"especie":   string(data.Species),
		})

		s.apply(view.PetSaved{Pet: repository.Record[entity.Pet]{ID: id, Data: data}})

		return nil
	})
}

// NewVisitForm opens the visit form for the shown pet.
func (s *Shell) NewVisitForm() error {
	return s.screenAction(func() (view.Action, error) {
		if _, ok := s.screen.(view.PetDetail); !ok {
			return nil, domainerrors.ErrInvalidTransition
		}

		return view.NewVisit{}, nil
	})
}

// SubmitVisitForm records a new visit. Visits are create-only.
func (s *Shell) SubmitVisitForm(ctx context.Context, data entity.Visit) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		scr, ok := s.screen.(view.VisitForm)
		if !ok || s.visitForm == nil {
			return domainerrors.ErrInvalidTransition
		}

		ctrl := s.visitForm
		ctrl.SetDraft(data)
		id, err := ctrl.Submit(ctx)
		if err != nil {
			return err
		}

		s.recorder.Record(ctx, s.uid(), audit.ActionCreateVisit, map[string]any{
			"atencionId": id,
			"mascotaId":  scr.Pet.ID,
			"tipo":       string(data.Type),
		})

		s.apply(view.VisitSaved{})

		return nil
	})
}

// OpenCertificate shows the vaccination certificate preview for the pet.
func (s *Shell) OpenCertificate() error {
	return s.screenAction(func() (view.Action, error) {
		if _, ok := s.screen.(view.PetDetail); !ok {
			return nil, domainerrors.ErrInvalidTransition
		}

		return view.ShowCertificate{}, nil
	})
}

// ExportCertificate renders the vaccination certificate for the previewed
// pet and stores it as a local file artifact.
func (s *Shell) ExportCertificate(ctx context.Context) (string, error) {
	var key string
	err := s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		scr, ok := s.screen.(view.Certificate)
		if !ok {
			return domainerrors.ErrInvalidTransition
		}

		visits, err := s.certificateVisits(ctx, scr)
		if err != nil {
			return domainerrors.ErrExportFailed.WithDetails(err.Error())
		}

		key, err = s.exporter.VaccinationCertificate(ctx, export.CertificateData{
			Resident: scr.Resident,
			Pet:      scr.Pet,
			Visits:   visits,
		})
		if err != nil {
			s.logger.Error("certificate export failed", slog.Any("error", err))

			return domainerrors.ErrExportFailed.WithDetails(err.Error())
		}

		s.recorder.Record(ctx, s.uid(), audit.ActionExportCert, map[string]any{
			"vecinoId":  scr.Resident.ID,
			"mascotaId": scr.Pet.ID,
			"archivo":   key,
		})
		s.lastExport = &ExportInfo{PDFKey: key}

		return nil
	})

	return key, err
}

// certificateVisits prefers the live snapshot and falls back to a one-shot
// read when the subscription has not delivered yet.
func (s *Shell) certificateVisits(ctx context.Context, scr view.Certificate) ([]repository.Record[entity.Visit], error) {
	if s.visitsBinder.State() == binder.StateReady {
		return s.visitsBinder.Snapshot(), nil
	}

	return s.visits.OfPet(scr.Resident.ID, scr.Pet.ID).Documents(ctx, repository.Query{OrderBy: "fecha", Desc: true})
}

// NewSupplyForm opens the supply form in create mode.
func (s *Shell) NewSupplyForm() error {
	return s.screenAction(func() (view.Action, error) {
		if _, ok := s.screen.(view.SupplyList); !ok {
			return nil, domainerrors.ErrInvalidTransition
		}

		return view.NewSupply{}, nil
	})
}

// OpenSupply opens the supply form seeded with the selected record.
func (s *Shell) OpenSupply(id string) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		if _, ok := s.screen.(view.SupplyList); !ok {
			return domainerrors.ErrInvalidTransition
		}
		rec, ok := s.suppliesBinder.Find(id)
		if !ok {
			return domainerrors.ErrRecordNotFound
		}
		s.apply(view.SupplySelected{Supply: rec})

		return nil
	})
}

// SubmitSupplyForm replaces the supply draft and submits it. Only the raw
// counts are persisted; the alert status is always derived on read.
func (s *Shell) SubmitSupplyForm(ctx context.Context, data entity.Supply) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		if _, ok := s.screen.(view.SupplyForm); !ok || s.supplyForm == nil {
			return domainerrors.ErrInvalidTransition
		}

		ctrl := s.supplyForm
		ctrl.SetDraft(data)
		id, err := ctrl.Submit(ctx)
		if err != nil {
			return err
		}

		action := audit.ActionCreateSupply
		if ctrl.Mode() == form.ModeEdit {
			action = audit.ActionUpdateSupply
		}
		s.recorder.Record(ctx, s.uid(), action, map[string]any{
			"insumoId": id,
			"nombre":   data.Name,
			"stock":    data.Stock,
		})

		s.apply(view.SupplySaved{})

		return nil
	})
}

// SetReportRange narrows the report query.
func (s *Shell) SetReportRange(from, to time.Time) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		if _, ok := s.screen.(view.Reports); !ok {
			return domainerrors.ErrInvalidTransition
		}
		s.apply(view.SetReportRange{From: from, To: to})

		return nil
	})
}

// ExportReport renders the cross-resident visit report for the selected
// range as PDF and XLSX artifacts.
func (s *Shell) ExportReport(ctx context.Context) (ExportInfo, error) {
	var info ExportInfo
	err := s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		scr, ok := s.screen.(view.Reports)
		if !ok {
			return domainerrors.ErrInvalidTransition
		}

		visits, err := s.visits.InRange(ctx, scr.From, scr.To)
		if err != nil {
			return domainerrors.ErrExportFailed.WithDetails(err.Error())
		}
		artifacts, err := s.exporter.VisitReport(ctx, scr.From, scr.To, visits)
		if err != nil {
			s.logger.Error("report export failed", slog.Any("error", err))

			return domainerrors.ErrExportFailed.WithDetails(err.Error())
		}

		s.recorder.Record(ctx, s.uid(), audit.ActionExportReport, map[string]any{
			"desde":      scr.From.Format("2006-01-02"),
			"hasta":      scr.To.Format("2006-01-02"),
			"atenciones": artifacts.Count,
		})

		info = ExportInfo{PDFKey: artifacts.PDFKey, XLSXKey: artifacts.XLSXKey, Count: artifacts.Count}
		s.lastExport = &info

		return nil
	})

	return info, err
}

// UpdateUserRole changes another account's role from the admin screen.
func (s *Shell) UpdateUserRole(ctx context.Context, id string, role entity.Role) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		if _, ok := s.screen.(view.UserAdmin); !ok {
			return domainerrors.ErrInvalidTransition
		}
		if s.role != entity.RoleAdmin {
			return domainerrors.ErrInvalidTransition.WithDetails("solo administradores")
		}

		rec, ok := s.usersBinder.Find(id)
		if !ok {
			return domainerrors.ErrRecordNotFound
		}

		data := rec.Data
		data.Role = role
		if err := s.users.Update(ctx, id, data); err != nil {
			return err
		}

		s.recorder.Record(ctx, s.uid(), audit.ActionUpdateUser, map[string]any{
			"usuarioId": id,
			"rol":       string(role),
		})

		return nil
	})
}

// screenAction applies a pure navigation action gated on the current screen.
func (s *Shell) screenAction(fn func() (view.Action, error)) error {
	return s.call(func() error {
		if err := s.requireSession(); err != nil {
			return err
		}
		action, err := fn()
		if err != nil {
			return err
		}
		s.apply(action)

		return nil
	})
}
