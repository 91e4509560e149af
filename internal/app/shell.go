// Package app hosts the application shell: a single-goroutine event loop
// that owns the navigation machine, the per-screen binders and the form
// controllers. The loop serializes user actions and subscription callbacks,
// so no two transitions are ever in flight at once.
package app

import (
	"context"
	"log/slog"

	"github.com/Manuufarina/gestion-zoonosis/internal/audit"
	"github.com/Manuufarina/gestion-zoonosis/internal/binder"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/service"
	"github.com/Manuufarina/gestion-zoonosis/internal/errors"
	"github.com/Manuufarina/gestion-zoonosis/internal/export"
	"github.com/Manuufarina/gestion-zoonosis/internal/form"
	"github.com/Manuufarina/gestion-zoonosis/internal/view"

	"go.uber.org/fx"
)

// Shell wires the navigation machine to its collaborators.
type Shell struct {
	logger   *slog.Logger
	session  service.SessionProvider
	exporter *export.Service
	recorder *audit.Recorder

	residents repository.ResidentRepository
	pets      repository.PetRepository
	visits    repository.VisitRepository
	supplies  repository.SupplyRepository
	users     repository.UserRepository
	auditRepo repository.AuditRepository

	loop chan func()
	done chan struct{}
	ctx  context.Context

	// Everything below is owned by the loop goroutine.
	screen   view.Screen
	identity *service.Identity
	role     entity.Role

	residentsBinder *binder.Binder[entity.Resident]
	petsBinder      *binder.Binder[entity.Pet]
	petsScope       string
	visitsBinder    *binder.Binder[entity.Visit]
	visitsScope     [2]string
	suppliesBinder  *binder.Binder[entity.Supply]
	usersBinder     *binder.Binder[entity.User]
	logsBinder      *binder.Binder[entity.AuditEntry]

	residentForm *form.Controller[entity.Resident]
	petForm      *form.Controller[entity.Pet]
	visitForm    *form.Controller[entity.Visit]
	supplyForm   *form.Controller[entity.Supply]

	residentSchema form.Schema[entity.Resident]
	petSchema      form.Schema[entity.Pet]
	visitSchema    form.Schema[entity.Visit]
	supplySchema   form.Schema[entity.Supply]

	lastExport *ExportInfo

	unsubscribeSession func()
}

// ExportInfo names the artifacts of the most recent export on this screen.
type ExportInfo struct {
	PDFKey  string `json:"pdfKey,omitempty"`
	XLSXKey string `json:"xlsxKey,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// Params holds the shell's dependencies, injected by Fx.
type Params struct {
	fx.In

	Lc       fx.Lifecycle
	Ctx      context.Context
	Logger   *slog.Logger
	Session  service.SessionProvider
	Exporter *export.Service
	Recorder *audit.Recorder

	Residents repository.ResidentRepository
	Pets      repository.PetRepository
	Visits    repository.VisitRepository
	Supplies  repository.SupplyRepository
	Users     repository.UserRepository
	AuditRepo repository.AuditRepository
}

// New builds the shell and registers its lifecycle hooks.
func New(params Params) *Shell {
	s := NewShell(params.Ctx, params.Logger, params.Session, params.Exporter, params.Recorder,
		params.Residents, params.Pets, params.Visits, params.Supplies, params.Users, params.AuditRepo)

	params.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()

			return nil
		},
		OnStop: func(context.Context) error {
			s.Stop()

			return nil
		},
	})

	return s
}

// NewShell is the hook-free constructor; tests call Start and Stop directly.
func NewShell(
	ctx context.Context,
	logger *slog.Logger,
	session service.SessionProvider,
	exporter *export.Service,
	recorder *audit.Recorder,
	residents repository.ResidentRepository,
	pets repository.PetRepository,
	visits repository.VisitRepository,
	supplies repository.SupplyRepository,
	users repository.UserRepository,
	auditRepo repository.AuditRepository,
) *Shell {
	s := &Shell{
		logger:    logger,
		session:   session,
		exporter:  exporter,
		recorder:  recorder,
		residents: residents,
		pets:      pets,
		visits:    visits,
		supplies:  supplies,
		users:     users,
		auditRepo: auditRepo,
		loop:      make(chan func(), 64),
		done:      make(chan struct{}),
		ctx:       ctx,
		screen:    view.Login{},
		role:      entity.RoleOperator,

		residentSchema: form.NewSchema(func() entity.Resident { return entity.Resident{} }),
		petSchema: form.NewSchema(func() entity.Pet {
			return entity.Pet{Species: entity.SpeciesDog, Sex: entity.SexMale}
		}),
		visitSchema: form.NewSchema(func() entity.Visit {
			return entity.Visit{Site: entity.SiteCentral, Type: entity.VisitClinical}
		}),
		supplySchema: form.NewSchema(func() entity.Supply { return entity.Supply{} }),
	}

	s.residentsBinder = binder.New[entity.Resident](s, nil)
	s.petsBinder = binder.New[entity.Pet](s, nil)
	s.visitsBinder = binder.New[entity.Visit](s, nil)
	s.suppliesBinder = binder.New[entity.Supply](s, nil)
	s.usersBinder = binder.New[entity.User](s, nil)
	s.logsBinder = binder.New[entity.AuditEntry](s, nil)

	return s
}

// Start launches the loop and bridges the session provider into it. There
// is exactly one process-wide session subscription; screens read identity
// from the shell, never from ambient globals.
func (s *Shell) Start() {
	go s.run()

	s.unsubscribeSession = s.session.Subscribe(func(identity *service.Identity) {
		s.Dispatch(func() {
			wasSignedIn := s.identity != nil
			s.identity = identity
			s.apply(view.SessionChanged{SignedIn: identity != nil})
			if identity != nil && !wasSignedIn {
				s.loadRole(identity.UID)
			}
			if identity == nil {
				s.role = entity.RoleOperator
			}
		})
	})
}

// Stop tears the loop down; all binders release their subscriptions.
func (s *Shell) Stop() {
	if s.unsubscribeSession != nil {
		s.unsubscribeSession()
	}
	_ = s.call(func() error {
		s.closeBinders()

		return nil
	})
	close(s.done)
}

func (s *Shell) run() {
	for {
		select {
		case fn := <-s.loop:
			fn()
		case <-s.done:
			return
		}
	}
}

// Dispatch queues work onto the loop. It implements binder.Dispatcher.
func (s *Shell) Dispatch(fn func()) {
	select {
	case s.loop <- fn:
	case <-s.done:
	}
}

// call runs fn on the loop and waits for its result.
func (s *Shell) call(fn func() error) error {
	result := make(chan error, 1)
	s.Dispatch(func() {
		result <- fn()
	})
	select {
	case err := <-result:
		return err
	case <-s.done:
		return context.Canceled
	}
}

// apply reduces one action and re-syncs binders and forms to the new screen.
func (s *Shell) apply(action view.Action) {
	s.screen = view.Reduce(s.screen, action)
	s.syncBinders()
	s.syncForms()
}

// loadRole fetches the signed-in account's user document off the loop and
// folds the result back in. Until it lands, or if it fails, the session is
// treated as a plain operator.
func (s *Shell) loadRole(uid string) {
	go func() {
		records, err := s.users.Documents(s.ctx, repository.Query{})
		if err != nil {
			s.logger.Warn("failed to load user role", slog.Any("error", err))

			return
		}
		s.Dispatch(func() {
			if s.identity == nil || s.identity.UID != uid {
				return
			}
			for _, rec := range records {
				if rec.ID == uid {
					s.role = rec.Data.Role

					return
				}
			}
		})
	}()
}

// syncBinders gives every screen exactly the subscriptions it needs and
// releases the rest. Navigating away, or a parent-scope change, unsubscribes
// immediately.
func (s *Shell) syncBinders() {
	if _, signedOut := s.screen.(view.Login); signedOut {
		s.closeBinders()

		return
	}

	var needResidents, needSupplies, needUsers, needLogs bool
	petsScope := ""
	visitsScope := [2]string{}

	switch scr := s.screen.(type) {
	case view.Dashboard:
		// Independent counter subscriptions; their relative update order
		// is not guaranteed.
		needResidents = true
		needSupplies = true
	case view.ResidentList:
		needResidents = true
	case view.ResidentDetail:
		petsScope = scr.Resident.ID
	case view.PetDetail:
		visitsScope = [2]string{scr.Resident.ID, scr.Pet.ID}
	case view.Certificate:
		visitsScope = [2]string{scr.Resident.ID, scr.Pet.ID}
	case view.SupplyList:
		needSupplies = true
	case view.UserAdmin:
		needUsers = true
	case view.AuditLog:
		needLogs = true
	}

	syncUnscoped(s.ctx, s.residentsBinder, needResidents, s.residents, repository.Query{OrderBy: "apellido"})
	syncUnscoped(s.ctx, s.suppliesBinder, needSupplies, s.supplies, repository.Query{OrderBy: "nombre"})
	syncUnscoped(s.ctx, s.usersBinder, needUsers, s.users, repository.Query{OrderBy: "nombre"})
	syncUnscoped(s.ctx, s.logsBinder, needLogs, auditCollection{repo: s.auditRepo}, repository.Query{OrderBy: "fecha", Desc: true})

	switch {
	case petsScope == "":
		s.petsScope = ""
		s.petsBinder.Close()
	case s.petsScope != petsScope || !s.petsBinder.Bound():
		s.petsScope = petsScope
		s.petsBinder.Bind(s.ctx, s.pets.OfResident(petsScope), repository.Query{OrderBy: "nombre"})
	}

	switch {
	case visitsScope == [2]string{}:
		s.visitsScope = [2]string{}
		s.visitsBinder.Close()
	case s.visitsScope != visitsScope || !s.visitsBinder.Bound():
		s.visitsScope = visitsScope
		s.visitsBinder.Bind(s.ctx, s.visits.OfPet(visitsScope[0], visitsScope[1]), repository.Query{OrderBy: "fecha", Desc: true})
	}
}

// syncUnscoped binds or closes a binder whose query has no parent scope.
// Rebinding an already bound binder would needlessly drop its snapshot, so
// bound ones are left alone.
func syncUnscoped[T any](ctx context.Context, b *binder.Binder[T], need bool, col repository.Collection[T], q repository.Query) {
	switch {
	case need && !b.Bound():
		b.Bind(ctx, col, q)
	case !need:
		b.Close()
	}
}

func (s *Shell) closeBinders() {
	s.residentsBinder.Close()
	s.petsBinder.Close()
	s.petsScope = ""
	s.visitsBinder.Close()
	s.visitsScope = [2]string{}
	s.suppliesBinder.Close()
	s.usersBinder.Close()
	s.logsBinder.Close()
}

// syncForms constructs a fresh controller on entering a form screen and
// drops it on leaving. The controller holds the mutable draft in between.
func (s *Shell) syncForms() {
	switch scr := s.screen.(type) {
	case view.ResidentForm:
		if s.residentForm == nil {
			if scr.Existing != nil {
				s.residentForm = form.NewEdit(s.residents, s.residentSchema, s.logger, *scr.Existing)
			} else {
				s.residentForm = form.NewCreate(s.residents, s.residentSchema, s.logger)
			}
		}
	case view.PetForm:
		if s.petForm == nil {
			col := s.pets.OfResident(scr.Resident.ID)
			if scr.Existing != nil {
				s.petForm = form.NewEdit(col, s.petSchema, s.logger, *scr.Existing)
			} else {
				s.petForm = form.NewCreate(col, s.petSchema, s.logger)
			}
		}
	case view.VisitForm:
		if s.visitForm == nil {
			col := s.visits.OfPet(scr.Resident.ID, scr.Pet.ID)
			s.visitForm = form.NewCreate(col, s.visitSchema, s.logger)
		}
	case view.SupplyForm:
		if s.supplyForm == nil {
			if scr.Existing != nil {
				s.supplyForm = form.NewEdit(s.supplies, s.supplySchema, s.logger, *scr.Existing)
			} else {
				s.supplyForm = form.NewCreate(s.supplies, s.supplySchema, s.logger)
			}
		}
	}

	if _, ok := s.screen.(view.ResidentForm); !ok {
		s.residentForm = nil
	}
	if _, ok := s.screen.(view.PetForm); !ok {
		s.petForm = nil
	}
	if _, ok := s.screen.(view.VisitForm); !ok {
		s.visitForm = nil
	}
	if _, ok := s.screen.(view.SupplyForm); !ok {
		s.supplyForm = nil
	}

	// An export preview belongs to the screen that produced it.
	switch s.screen.(type) {
	case view.Certificate, view.Reports:
	default:
		s.lastExport = nil
	}
}

// auditCollection adapts the append-only audit repository to the generic
// collection contract for read-only binding.
type auditCollection struct {
	repo repository.AuditRepository
}

func (a auditCollection) Subscribe(ctx context.Context, q repository.Query) (repository.Subscription[entity.AuditEntry], error) {
	return a.repo.Subscribe(ctx, q)
}

func (a auditCollection) Create(context.Context, entity.AuditEntry) (string, error) {
	return "", errors.New("audit log is append-only")
}

func (a auditCollection) Update(context.Context, string, entity.AuditEntry) error {
	return errors.New("audit log is append-only")
}

func (a auditCollection) Delete(context.Context, string) error {
	return errors.New("audit log is append-only")
}

func (a auditCollection) Documents(context.Context, repository.Query) ([]repository.Record[entity.AuditEntry], error) {
	return nil, errors.New("audit log is subscribe-only")
}
