// Package delivery defines the contract every transport entrypoint fulfills.
package delivery

import "context"

// Delivery is a long-running transport (HTTP server, worker loop) started by
// the application entrypoint.
type Delivery interface {
	// Serve blocks until the transport stops or the context is canceled.
	Serve(ctx context.Context) error
}
