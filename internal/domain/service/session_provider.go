// Package service defines contracts for external collaborators the
// application consumes: the session provider, QR generation and the export
// artifact store.
package service

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is the single generic sign-in failure surfaced to
// the user, regardless of the underlying cause.
var ErrInvalidCredentials = errors.New("credenciales inválidas")

// Identity is the signed-in account as reported by the session provider.
type Identity struct {
	UID   string
	Email string
}

// SessionProvider bridges the external auth backend. Implementations notify
// subscribers on every state change: a non-nil identity after sign-in or
// token refresh, nil after sign-out or session loss.
type SessionProvider interface {
	// Subscribe registers a state-change callback and immediately invokes
	// it with the current state. The returned function unsubscribes.
	Subscribe(fn func(*Identity)) (unsubscribe func())

	// SignIn exchanges an email/password pair for a session.
	SignIn(ctx context.Context, email, password string) error

	// SignOut terminates the session and notifies subscribers with nil.
	SignOut()
}
