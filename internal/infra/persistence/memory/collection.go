// Package memory implements the collection store contracts in process
// memory. It backs the test suites and doubles as an offline backend; live
// subscriptions receive a wholesale snapshot after every mutation, mirroring
// the remote store's delivery model.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
)

// Collection is the in-memory counterpart of the generic Firestore
// collection. Exported so tests can seed and inspect it directly.
type Collection[T any] struct {
	mu     sync.Mutex
	nextID int
	order  []string
	byID   map[string]T
	subs   map[*subscription[T]]repository.Query
}

// NewCollection returns an empty in-memory collection.
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{
		byID: make(map[string]T),
		subs: make(map[*subscription[T]]repository.Query),
	}
}

func (c *Collection[T]) snapshotLocked(q repository.Query) []repository.Record[T] {
	records := make([]repository.Record[T], 0, len(c.order))
	for _, id := range c.order {
		records = append(records, repository.Record[T]{ID: id, Data: c.byID[id]})
	}
	if q.OrderBy != "" {
		sortRecords(records, q.OrderBy, q.Desc)
	}

	return records
}

// broadcastLocked re-delivers the full result set to every subscriber.
func (c *Collection[T]) broadcastLocked() {
	for sub, q := range c.subs {
		sub.deliver(repository.SnapshotEvent[T]{Records: c.snapshotLocked(q)})
	}
}

func (c *Collection[T]) Subscribe(ctx context.Context, q repository.Query) (repository.Subscription[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := &subscription[T]{
		events: make(chan repository.SnapshotEvent[T], 16),
		parent: c,
	}
	c.subs[sub] = q
	sub.deliver(repository.SnapshotEvent[T]{Records: c.snapshotLocked(q)})

	return sub, nil
}

func (c *Collection[T]) Create(ctx context.Context, data T) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := fmt.Sprintf("doc-%04d", c.nextID)
	c.byID[id] = data
	c.order = append(c.order, id)
	c.broadcastLocked()

	return id, nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, data T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[id]; !ok {
		return repository.ErrNotFound
	}
	c.byID[id] = data
	c.broadcastLocked()

	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(c.byID, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)

			break
		}
	}
	c.broadcastLocked()

	return nil
}

func (c *Collection[T]) Documents(ctx context.Context, q repository.Query) ([]repository.Record[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked(q), nil
}

// Len reports the number of stored documents.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.byID)
}

func (c *Collection[T]) drop(sub *subscription[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.subs[sub]; ok {
		delete(c.subs, sub)
		close(sub.events)
	}
}

type subscription[T any] struct {
	events chan repository.SnapshotEvent[T]
	parent *Collection[T]
	closed sync.Once
}

func (s *subscription[T]) deliver(ev repository.SnapshotEvent[T]) {
	// Drop-oldest on overflow; a later snapshot supersedes earlier ones anyway.
	select {
	case s.events <- ev:
	default:
		select {
		case <-s.events:
		default:
		}
		s.events <- ev
	}
}

func (s *subscription[T]) Events() <-chan repository.SnapshotEvent[T] {
	return s.events
}

func (s *subscription[T]) Unsubscribe() {
	s.closed.Do(func() { s.parent.drop(s) })
}

// sortRecords orders by the struct field carrying the given firestore tag.
// Strings, integers and time.Time are supported; other kinds keep insertion
// order.
func sortRecords[T any](records []repository.Record[T], field string, desc bool) {
	sort.SliceStable(records, func(i, j int) bool {
		less := fieldLess(records[i].Data, records[j].Data, field)
		if desc {
			return fieldLess(records[j].Data, records[i].Data, field)
		}

		return less
	})
}

func fieldLess[T any](a, b T, field string) bool {
	av, ok := fieldByTag(a, field)
	if !ok {
		return false
	}
	bv, _ := fieldByTag(b, field)

	switch x := av.(type) {
	case string:
		return x < bv.(string)
	case int:
		return x < bv.(int)
	case time.Time:
		return x.Before(bv.(time.Time))
	default:
		return false
	}
}

func fieldByTag(v any, tag string) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := strings.Split(rt.Field(i).Tag.Get("firestore"), ",")[0]
		if name == tag {
			return rv.Field(i).Interface(), true
		}
	}

	return nil, false
}
