package firestore

import (
	"context"
	"sync"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"

	fs "cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
)

// collection is the generic Firestore-backed implementation of
// repository.Collection. The path is fixed at construction time; scoped
// subcollections get a fresh instance per parent.
type collection[T any] struct {
	ref fs.Query
	col *fs.CollectionRef
}

// NewCollection builds a typed view over the collection at path
// (e.g. "vecinos" or "vecinos/abc/mascotas").
func NewCollection[T any](client *fs.Client, path string) repository.Collection[T] {
	col := client.Collection(path)

	return &collection[T]{ref: col.Query, col: col}
}

// NewGroup builds a typed read-only view over a collection group query,
// matching every subcollection with the given ID regardless of parent.
func NewGroup[T any](client *fs.Client, collectionID string) repository.Collection[T] {
	return &collection[T]{ref: client.CollectionGroup(collectionID).Query}
}

func (c *collection[T]) build(q repository.Query) fs.Query {
	fq := c.ref
	for _, cond := range q.Conditions {
		fq = fq.Where(cond.Field, string(cond.Op), cond.Value)
	}
	if q.OrderBy != "" {
		dir := fs.Asc
		if q.Desc {
			dir = fs.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}

	return fq
}

func decodeDocs[T any](docs []*fs.DocumentSnapshot) ([]repository.Record[T], error) {
	records := make([]repository.Record[T], 0, len(docs))
	for _, doc := range docs {
		var data T
		if err := doc.DataTo(&data); err != nil {
			return nil, errors.Wrapf(err, "decode document %s", doc.Ref.ID)
		}
		records = append(records, repository.Record[T]{ID: doc.Ref.ID, Data: data})
	}

	return records, nil
}

func (c *collection[T]) Subscribe(ctx context.Context, q repository.Query) (repository.Subscription[T], error) {
	it := c.build(q).Snapshots(ctx)
	sub := &subscription[T]{
		it:     it,
		events: make(chan repository.SnapshotEvent[T], 1),
	}
	go sub.run()

	return sub, nil
}

func (c *collection[T]) Create(ctx context.Context, data T) (string, error) {
	if c.col == nil {
		return "", errors.New("create not supported on a collection group")
	}

	ref, _, err := c.col.Add(ctx, data)
	if err != nil {
		return "", errors.Wrap(err, "failed to create document")
	}

	return ref.ID, nil
}

func (c *collection[T]) Update(ctx context.Context, id string, data T) error {
	if c.col == nil {
		return errors.New("update not supported on a collection group")
	}

	if _, err := c.col.Doc(id).Set(ctx, data); err != nil {
		return errors.Wrapf(err, "failed to update document %s", id)
	}

	return nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	if c.col == nil {
		return errors.New("delete not supported on a collection group")
	}

	if _, err := c.col.Doc(id).Delete(ctx); err != nil {
		return errors.Wrapf(err, "failed to delete document %s", id)
	}

	return nil
}

func (c *collection[T]) Documents(ctx context.Context, q repository.Query) ([]repository.Record[T], error) {
	docs, err := c.build(q).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to query documents")
	}

	return decodeDocs[T](docs)
}

// subscription pumps Firestore query snapshots into a channel until the
// iterator is stopped or fails.
type subscription[T any] struct {
	it     *fs.QuerySnapshotIterator
	events chan repository.SnapshotEvent[T]
	once   sync.Once
}

func (s *subscription[T]) run() {
	defer close(s.events)

	for {
		snap, err := s.it.Next()
		if err != nil {
			// Done means the iterator was stopped; nothing to report.
			if errors.Is(err, iterator.Done) {
				return
			}
			s.events <- repository.SnapshotEvent[T]{Err: errors.Wrap(err, "snapshot listener failed")}

			return
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			s.events <- repository.SnapshotEvent[T]{Err: errors.Wrap(err, "failed to read snapshot documents")}

			return
		}

		records, err := decodeDocs[T](docs)
		if err != nil {
			s.events <- repository.SnapshotEvent[T]{Err: err}

			return
		}

		s.events <- repository.SnapshotEvent[T]{Records: records}
	}
}

func (s *subscription[T]) Events() <-chan repository.SnapshotEvent[T] {
	return s.events
}

func (s *subscription[T]) Unsubscribe() {
	s.once.Do(s.it.Stop)
}
