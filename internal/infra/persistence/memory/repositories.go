package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
)

// NewResidentRepository returns an empty in-memory vecinos collection.
func NewResidentRepository() *Collection[entity.Resident] {
	return NewCollection[entity.Resident]()
}

// PetRepository keeps one collection per owning resident, created lazily.
type PetRepository struct {
	mu         sync.Mutex
	byResident map[string]*Collection[entity.Pet]
}

func NewPetRepository() *PetRepository {
	return &PetRepository{byResident: make(map[string]*Collection[entity.Pet])}
}

func (r *PetRepository) OfResident(residentID string) repository.Collection[entity.Pet] {
	r.mu.Lock()
	defer r.mu.Unlock()

	col, ok := r.byResident[residentID]
	if !ok {
		col = NewCollection[entity.Pet]()
		r.byResident[residentID] = col
	}

	return col
}

// VisitRepository keeps one collection per (resident, pet) pair.
type VisitRepository struct {
	mu    sync.Mutex
	byPet map[[2]string]*Collection[entity.Visit]
}

func NewVisitRepository() *VisitRepository {
	return &VisitRepository{byPet: make(map[[2]string]*Collection[entity.Visit])}
}

func (r *VisitRepository) OfPet(residentID, petID string) repository.Collection[entity.Visit] {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]string{residentID, petID}
	col, ok := r.byPet[key]
	if !ok {
		col = NewCollection[entity.Visit]()
		r.byPet[key] = col
	}

	return col
}

// InRange scans every pet's visit collection, matching the semantics of the
// remote store's collection group query.
func (r *VisitRepository) InRange(ctx context.Context, from, to time.Time) ([]repository.Record[entity.Visit], error) {
	r.mu.Lock()
	cols := make([]*Collection[entity.Visit], 0, len(r.byPet))
	for _, col := range r.byPet {
		cols = append(cols, col)
	}
	r.mu.Unlock()

	var matched []repository.Record[entity.Visit]
	for _, col := range cols {
		records, err := col.Documents(ctx, repository.Query{})
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			if rec.Data.Date.Before(from) || rec.Data.Date.After(to) {
				continue
			}
			matched = append(matched, rec)
		}
	}
	sortRecords(matched, "fecha", false)

	return matched, nil
}

// AuditRepository is the append-only in-memory logs collection.
type AuditRepository struct {
	col *Collection[entity.AuditEntry]
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{col: NewCollection[entity.AuditEntry]()}
}

func (r *AuditRepository) Append(ctx context.Context, entry entity.AuditEntry) (string, error) {
	return r.col.Create(ctx, entry)
}

func (r *AuditRepository) Subscribe(ctx context.Context, q repository.Query) (repository.Subscription[entity.AuditEntry], error) {
	return r.col.Subscribe(ctx, q)
}

// Entries exposes the appended entries for assertions.
func (r *AuditRepository) Entries(ctx context.Context) []repository.Record[entity.AuditEntry] {
	records, _ := r.col.Documents(ctx, repository.Query{})

	return records
}
