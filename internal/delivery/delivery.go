// Package delivery defines the contract every transport server implements.
package delivery

import "context"

// Delivery is a transport server the application runs until shutdown.
type Delivery interface {
	// Serve blocks until the server stops or the context is cancelled.
	Serve(ctx context.Context) error
}
