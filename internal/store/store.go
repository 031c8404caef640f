// Package store provides access to named table resources. A resource is a
// flat table of raw price rows identified by name; Parquet files and SQLite
// tables are the two supported backends.
package store

import (
	"context"
	"errors"

	"chartnav/internal/domain"
)

// ErrNotFound is wrapped when a named resource does not exist.
var ErrNotFound = errors.New("resource not found")

// TableSource reads raw rows from named resources. Sources return rows as
// stored: unsorted, possibly duplicated, with minute timestamps still
// carrying their zone. Cleaning is the loader's job.
type TableSource interface {
	// ReadDaily returns the daily-shape rows of the named resource.
	ReadDaily(ctx context.Context, resource string) ([]domain.Bar, error)

	// ReadMinute returns the minute-shape rows of the named resource. The
	// bar Timestamp is the intraday time and Day the session date.
	ReadMinute(ctx context.Context, resource string) ([]domain.Bar, error)
}

// TableSink writes daily-shape rows to a named resource. Used by the
// backfill tooling that builds catalog inputs; the engine itself only reads.
type TableSink interface {
	// WriteDaily merges bars into the named resource, deduplicating by
	// (ticker, timestamp) with incoming rows winning.
	WriteDaily(ctx context.Context, resource string, bars []domain.Bar) error
}
