// Package gather builds catalog resources by backfilling historical daily
// bars from the Alpaca market-data API. It is offline tooling: the engine
// itself only ever reads the resources this package writes.
package gather

import "context"

// Gatherer is the interface for all resource-building processes.
type Gatherer interface {
	// Name returns the gatherer identifier.
	Name() string
	// Run executes the backfill. It returns when the run is complete or
	// the context is cancelled.
	Run(ctx context.Context) error
}
