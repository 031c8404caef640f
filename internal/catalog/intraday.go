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
var _ Catalog = (*Intraday)(nil)

// Intraday is the minute-resolution catalog. The dictionary resource keeps
// the daily shape; the data resource holds minute bars. Windows come back
// display-formatted: time as a fixed string, raw timestamp and session
// date stripped.
//
// The display timeframe label is the one piece of mutable state beyond the
// cursor. It is advisory metadata only and never re-filters data.
type Intraday struct {
	cursor

	charts *table.Table
	data   *table.Table

	radiusDays int
	timeframe  string
}

// NewIntraday loads the dictionary and minute data resources, applies the
// configured indicators to the data table, and returns a catalog positioned
// at index zero with the default timeframe label.
func NewIntraday(ctx context.Context, src store.TableSource, dictResource, dataResource string, radiusDays int, specs []indicator.Spec) (*Intraday, error) {
	charts, err := loader.LoadDaily(ctx, src, dictResource)
	if err != nil {
		return nil, err
	}
	charts.SortStable(func(a, b domain.Bar) bool {
		return a.Timestamp.After(b.Timestamp)
	})

	data, err := loader.LoadMinute(ctx, src, dataResource)
	if err != nil {
		return nil, err
	}
	indicator.NewEngine(specs).Apply(data)

	return &Intraday{
		cursor:     cursor{size: charts.Len()},
		charts:     charts,
		data:       data,
		radiusDays: radiusDays,
		timeframe:  domain.DefaultIntradayTimeframe,
	}, nil
}

// SetTimeframe replaces the display timeframe label. Navigation and
// windowing are unaffected.
func (c *Intraday) SetTimeframe(label string) {
	c.timeframe = label
}

// Timeframe returns the current display timeframe label.
func (c *Intraday) Timeframe() string {
	return c.timeframe
}

// Metadata returns the metadata for a catalog position, carrying the
// current timeframe label. The index must be in range.
func (c *Intraday) Metadata(index int) domain.ChartMeta {
	entry := c.charts.Bars[index]
	return domain.ChartMeta{
		Ticker:       entry.Ticker,
		DateStr:      entry.Timestamp.Format(domain.DateFormat),
		Date:         entry.Timestamp,
		Timeframe:    c.timeframe,
		Index:        index,
		HasTimeframe: true,
	}
}

// LoadChart extracts and display-formats the minute window for a catalog
// position using the configured radius. The cursor does not move.
func (c *Intraday) LoadChart(index int) (Window, domain.ChartMeta, error) {
	return c.LoadChartWithRadius(index, c.radiusDays)
}

// LoadChartWithRadius is LoadChart with an explicit radius override.
func (c *Intraday) LoadChartWithRadius(index, radiusDays int) (Window, domain.ChartMeta, error) {
	meta := c.Metadata(index)
	w := window.Extract(c.data, meta.Ticker, meta.Date, radiusDays)
	rows, err := window.FormatIntraday(w)
	if err != nil {
		return nil, meta, err
	}
	return DisplayWindow(rows), meta, nil
}

// LoadCurrent extracts the window at the cursor.
func (c *Intraday) LoadCurrent() (Window, domain.ChartMeta, error) {
	return c.LoadChart(c.CurrentIndex())
}

// NextChart advances the cursor with wraparound and loads the new chart.
func (c *Intraday) NextChart() (Window, domain.ChartMeta, error) {
	return c.LoadChart(c.IncreaseIndex())
}

// PreviousChart retreats the cursor with wraparound and loads the new chart.
func (c *Intraday) PreviousChart() (Window, domain.ChartMeta, error) {
	return c.LoadChart(c.DecreaseIndex())
}
