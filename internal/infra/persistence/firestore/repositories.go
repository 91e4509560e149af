package firestore

import (
	"context"
	"fmt"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"

	fs "cloud.google.com/go/firestore"
)

const (
	residentsPath   = "vecinos"
	petsCollection  = "mascotas"
	visitCollection = "atenciones"
	suppliesPath    = "insumos"
	usersPath       = "usuarios"
	logsPath        = "logs"
)

// NewResidentRepository returns the vecinos collection.
func NewResidentRepository(client *fs.Client) repository.ResidentRepository {
	return NewCollection[entity.Resident](client, residentsPath)
}

type petRepository struct {
	client *fs.Client
}

// NewPetRepository returns the resident-scoped mascotas repository.
func NewPetRepository(client *fs.Client) repository.PetRepository {
	return &petRepository{client: client}
}

func (r *petRepository) OfResident(residentID string) repository.Collection[entity.Pet] {
	path := fmt.Sprintf("%s/%s/%s", residentsPath, residentID, petsCollection)

	return NewCollection[entity.Pet](r.client, path)
}

type visitRepository struct {
	client *fs.Client
}

// NewVisitRepository returns the pet-scoped atenciones repository.
func NewVisitRepository(client *fs.Client) repository.VisitRepository {
	return &visitRepository{client: client}
}

func (r *visitRepository) OfPet(residentID, petID string) repository.Collection[entity.Visit] {
	path := fmt.Sprintf("%s/%s/%s/%s/%s", residentsPath, residentID, petsCollection, petID, visitCollection)

	return NewCollection[entity.Visit](r.client, path)
}

// InRange is the one cross-parent read in the system: a collection group
// range query over every atenciones subcollection.
func (r *visitRepository) InRange(ctx context.Context, from, to time.Time) ([]repository.Record[entity.Visit], error) {
	group := NewGroup[entity.Visit](r.client, visitCollection)
	q := repository.Query{OrderBy: "fecha"}.
		Where("fecha", repository.OpGreaterOrEqual, from).
		Where("fecha", repository.OpLessOrEqual, to)

	return group.Documents(ctx, q)
}

// NewSupplyRepository returns the insumos collection.
func NewSupplyRepository(client *fs.Client) repository.SupplyRepository {
	return NewCollection[entity.Supply](client, suppliesPath)
}

// NewUserRepository returns the usuarios collection.
func NewUserRepository(client *fs.Client) repository.UserRepository {
	return NewCollection[entity.User](client, usersPath)
}

type auditRepository struct {
	col repository.Collection[entity.AuditEntry]
}

// NewAuditRepository returns the append-only logs collection.
func NewAuditRepository(client *fs.Client) repository.AuditRepository {
	return &auditRepository{col: NewCollection[entity.AuditEntry](client, logsPath)}
}

func (r *auditRepository) Append(ctx context.Context, entry entity.AuditEntry) (string, error) {
	return r.col.Create(ctx, entry)
}

func (r *auditRepository) Subscribe(ctx context.Context, q repository.Query) (repository.Subscription[entity.AuditEntry], error) {
	return r.col.Subscribe(ctx, q)
}
