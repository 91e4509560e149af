// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the remote collection store.
package repository

import (
	"context"
	"errors"
)

// ErrSubscriptionClosed is returned when operating on a released subscription.
var ErrSubscriptionClosed = errors.New("subscription closed")

// ErrNotFound is returned when a point read misses.
var ErrNotFound = errors.New("document not found")

// Record pairs a store-assigned document ID with its decoded data. IDs are
// unique only within the parent collection's scope.
type Record[T any] struct {
	ID   string `json:"id"`
	Data T      `json:"data"`
}

// SnapshotEvent carries one wholesale result set of a live query, or the
// error that terminated the subscription. Each event fully replaces the
// previous one; consumers must not merge across events.
type SnapshotEvent[T any] struct {
	Records []Record[T]
	Err     error
}

// Subscription is one live query. Events are delivered in the order the
// store emits them; no ordering holds between independent subscriptions.
type Subscription[T any] interface {
	// Events returns the snapshot stream. The channel is closed after
	// Unsubscribe or after a terminal error event.
	Events() <-chan SnapshotEvent[T]

	// Unsubscribe releases the live query immediately. Safe to call twice.
	Unsubscribe()
}

// Op is a query condition operator.
type Op string

const (
	OpEqual          Op = "=="
	OpGreaterOrEqual Op = ">="
	OpLessOrEqual    Op = "<="
)

// Condition is one field predicate of a query.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Query narrows and orders a collection read or subscription. The zero
// value selects the whole collection unordered.
type Query struct {
	Conditions []Condition
	OrderBy    string
	Desc       bool
}

// Where appends an equality/range condition.
func (q Query) Where(field string, op Op, value any) Query {
	q.Conditions = append(q.Conditions, Condition{Field: field, Op: op, Value: value})

	return q
}

// Collection is the generic contract every entity store satisfies. One
// implementation serves all entity types; the per-entity repository
// interfaces below are thin typed views over it.
type Collection[T any] interface {
	// Subscribe establishes a live query delivering wholesale snapshots.
	Subscribe(ctx context.Context, q Query) (Subscription[T], error)

	// Create appends a new document; the store assigns the ID.
	Create(ctx context.Context, data T) (string, error)

	// Update is a point write to a known document ID.
	Update(ctx context.Context, id string, data T) error

	// Delete removes a single document. Descendant subcollections are NOT
	// removed by the store; cascades are the caller's responsibility.
	Delete(ctx context.Context, id string) error

	// Documents runs a one-shot query.
	Documents(ctx context.Context, q Query) ([]Record[T], error)
}
