// Package catalog implements the navigable chart catalog: an ordered list
// of (ticker, date) chart identities with a cursor, producing a
// display-ready data window plus metadata for any position. Two variants
// exist, daily and intraday, selected by configuration and sharing the
// loader, window, and indicator machinery by composition.
package catalog

import (
	"chartnav/internal/domain"
)

// Window is the display-ready payload handed to consumers alongside the
// chart metadata. Daily catalogs produce *table.Table windows (timestamps
// plus derived indicator columns); intraday catalogs produce DisplayWindow
// rows with preformatted time strings.
type Window interface {
	Len() int
}

// DisplayWindow is the intraday window payload.
type DisplayWindow []domain.DisplayBar

// Len returns the number of rows.
func (w DisplayWindow) Len() int { return len(w) }

// Catalog is the navigation surface consumed by the UI layer. All
// operations assume a non-empty catalog; navigation over an empty catalog
// is undefined and callers must guard. Metadata panics on an out-of-range
// index; index validity is the caller's contract, only IncreaseIndex and
// DecreaseIndex provide wraparound.
//
// A Catalog is not safe for concurrent use; the cursor is an unguarded
// field and callers needing cross-goroutine access must serialize
// externally.
type Catalog interface {
	// Len returns the number of catalog entries.
	Len() int

	// CurrentIndex returns the cursor position.
	CurrentIndex() int

	// SetIndex moves the cursor directly, without wraparound or validation.
	SetIndex(index int)

	// IncreaseIndex advances the cursor, wrapping past the last entry to
	// zero, and returns the new index.
	IncreaseIndex() int

	// DecreaseIndex retreats the cursor, wrapping before zero to the last
	// entry, and returns the new index.
	DecreaseIndex() int

	// Metadata returns the metadata for a catalog position without moving
	// the cursor.
	Metadata(index int) domain.ChartMeta

	// LoadChart extracts the data window for a catalog position without
	// moving the cursor.
	LoadChart(index int) (Window, domain.ChartMeta, error)

	// LoadCurrent extracts the data window at the cursor.
	LoadCurrent() (Window, domain.ChartMeta, error)

	// NextChart advances the cursor (with wraparound) and loads the chart
	// at the new position.
	NextChart() (Window, domain.ChartMeta, error)

	// PreviousChart retreats the cursor (with wraparound) and loads the
	// chart at the new position.
	PreviousChart() (Window, domain.ChartMeta, error)
}

// cursor is the single piece of mutable navigation state shared by both
// catalog variants.
type cursor struct {
	index int
	size  int
}

func (c *cursor) Len() int {
	return c.size
}

func (c *cursor) CurrentIndex() int {
	return c.index
}

func (c *cursor) SetIndex(index int) {
	c.index = index
}

func (c *cursor) IncreaseIndex() int {
	if c.index < c.size-1 {
		c.index++
	} else {
		c.index = 0
	}
	return c.index
}

func (c *cursor) DecreaseIndex() int {
	if c.index > 0 {
		c.index--
	} else {
		c.index = c.size - 1
	}
	return c.index
}
