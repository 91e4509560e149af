// Package binder pairs a live collection query with locally observable
// loading/ready/error state. One binder instance holds at most one active
// subscription; every snapshot event replaces the local result set
// wholesale. All state mutations run on the application's event loop, so
// readers never observe a half-applied update.
package binder

import (
	"context"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
)

// State is the observable phase of a binder.
type State int

const (
	// StateLoading means no snapshot has arrived yet.
	StateLoading State = iota
	// StateReady means the snapshot reflects the latest delivered event.
	StateReady
	// StateError means the subscription failed; the binder stays in this
	// state until it is bound again.
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Dispatcher serializes work onto the application's event loop.
type Dispatcher interface {
	Dispatch(fn func())
}

// Binder materializes a live query into an ordered snapshot. Methods must
// be called from the event loop.
type Binder[T any] struct {
	dispatcher Dispatcher
	onChange   func()

	state   State
	err     error
	records []repository.Record[T]
	sub     repository.Subscription[T]
	gen     int
	bound   bool
	closed  bool
}

// New returns an unbound binder. onChange fires on the event loop after
// every applied snapshot or error.
func New[T any](dispatcher Dispatcher, onChange func()) *Binder[T] {
	return &Binder[T]{dispatcher: dispatcher, onChange: onChange, state: StateLoading}
}

// Bind releases any previous subscription and establishes a new one against
// the given collection. Changing scope (a different parent id) is expressed
// as a rebind.
func (b *Binder[T]) Bind(ctx context.Context, col repository.Collection[T], q repository.Query) {
	b.release()
	b.closed = false
	b.bound = true
	b.state = StateLoading
	b.err = nil
	b.records = nil

	sub, err := col.Subscribe(ctx, q)
	if err != nil {
		b.state = StateError
		b.err = err
		b.notify()

		return
	}

	b.sub = sub
	gen := b.gen
	go b.pump(gen, sub)
}

// pump forwards subscription events onto the loop. Events dispatched after
// the binder was rebound or closed carry a stale generation and are ignored.
func (b *Binder[T]) pump(gen int, sub repository.Subscription[T]) {
	for ev := range sub.Events() {
		ev := ev
		b.dispatcher.Dispatch(func() {
			b.apply(gen, ev)
		})
	}
}

func (b *Binder[T]) apply(gen int, ev repository.SnapshotEvent[T]) {
	if b.closed || gen != b.gen {
		return
	}

	if ev.Err != nil {
		b.state = StateError
		b.err = ev.Err
		b.notify()

		return
	}

	b.state = StateReady
	b.err = nil
	b.records = ev.Records
	b.notify()
}

func (b *Binder[T]) notify() {
	if b.onChange != nil {
		b.onChange()
	}
}

func (b *Binder[T]) release() {
	if b.sub != nil {
		b.sub.Unsubscribe()
		b.sub = nil
	}
	b.gen++
}

// Close releases the subscription. Late events queued for the old
// subscription no longer mutate any state.
func (b *Binder[T]) Close() {
	b.release()
	b.closed = true
	b.bound = false
	b.records = nil
	b.state = StateLoading
	b.err = nil
}

// Bound reports whether an active subscription backs the binder.
func (b *Binder[T]) Bound() bool {
	return b.bound
}

// State returns the binder's observable phase.
func (b *Binder[T]) State() State {
	return b.state
}

// Err returns the subscription failure, if any.
func (b *Binder[T]) Err() error {
	return b.err
}

// Snapshot returns the current ordered result set. The slice is replaced
// wholesale on every event and must not be mutated.
func (b *Binder[T]) Snapshot() []repository.Record[T] {
	return b.records
}

// Find returns the record with the given ID from the current snapshot.
func (b *Binder[T]) Find(id string) (repository.Record[T], bool) {
	for _, rec := range b.records {
		if rec.ID == id {
			return rec, true
		}
	}

	return repository.Record[T]{}, false
}
