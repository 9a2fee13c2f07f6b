// Package delivery defines the contract every transport (HTTP, workers)
// fulfils so the application can start them uniformly.
package delivery

import "context"

// Delivery is a long-running transport surface.
type Delivery interface {
	// Serve blocks until the transport stops or fails.
	Serve(ctx context.Context) error
}
