package catalog

import (
	"context"

	"chartnav/internal/domain"
	"chartnav/internal/indicator"
	"chartnav/internal/loader"
	"chartnav/internal/store"
	"chartnav/internal/table"
	"chartnav/internal/window"
)

// Compile-time interface check.
var _ Catalog = (*Daily)(nil)

// Daily is the daily-resolution catalog. The dictionary resource supplies
// the navigable (ticker, date) entries, presented most recent first; the
// data resource supplies the full price history that windows are cut from.
// Both tables are loaded once at construction and are immutable afterwards.
type Daily struct {
	cursor

	charts *table.Table
	data   *table.Table

	radiusDays int
}

// NewDaily loads the dictionary and data resources, applies the configured
// indicators to the data table, and returns a catalog positioned at index
// zero. Any load or validation failure aborts construction.
func NewDaily(ctx context.Context, src store.TableSource, dictResource, dataResource string, radiusDays int, specs []indicator.Spec) (*Daily, error) {
	charts, err := loader.LoadDaily(ctx, src, dictResource)
	if err != nil {
		return nil, err
	}
	// Presentation order: most recent chart first. Frozen after load.
	charts.SortStable(func(a, b domain.Bar) bool {
		return a.Timestamp.After(b.Timestamp)
	})

	data, err := loader.LoadDaily(ctx, src, dataResource)
	if err != nil {
		return nil, err
	}
	indicator.NewEngine(specs).Apply(data)

	return &Daily{
		cursor:     cursor{size: charts.Len()},
		charts:     charts,
		data:       data,
		radiusDays: radiusDays,
	}, nil
}

// Metadata returns the metadata for a catalog position. The index must be
// in range.
func (c *Daily) Metadata(index int) domain.ChartMeta {
	entry := c.charts.Bars[index]
	return domain.ChartMeta{
		Ticker:       entry.Ticker,
		DateStr:      entry.Timestamp.Format(domain.DateFormat),
		Date:         entry.Timestamp,
		Timeframe:    domain.DailyTimeframe,
		Index:        index,
		HasTimeframe: true,
	}
}

// LoadChart extracts the daily window for a catalog position. The cursor
// does not move.
func (c *Daily) LoadChart(index int) (Window, domain.ChartMeta, error) {
	meta := c.Metadata(index)
	w := window.Extract(c.data, meta.Ticker, meta.Date, c.radiusDays)
	return w, meta, nil
}

// LoadCurrent extracts the window at the cursor.
func (c *Daily) LoadCurrent() (Window, domain.ChartMeta, error) {
	return c.LoadChart(c.CurrentIndex())
}

// NextChart advances the cursor with wraparound and loads the new chart.
func (c *Daily) NextChart() (Window, domain.ChartMeta, error) {
	return c.LoadChart(c.IncreaseIndex())
}

// PreviousChart retreats the cursor with wraparound and loads the new chart.
func (c *Daily) PreviousChart() (Window, domain.ChartMeta, error) {
	return c.LoadChart(c.DecreaseIndex())
}
