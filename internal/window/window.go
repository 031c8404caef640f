// Package window extracts the bounded slice of price data shown for one
// chart: all bars of a ticker within a symmetric day radius around a
// reference timestamp.
package window

import (
	"fmt"
	"time"

	"chartnav/internal/domain"
	"chartnav/internal/schema"
	"chartnav/internal/table"
)

// DefaultDailyRadiusDays is the half-width of a daily chart window.
const DefaultDailyRadiusDays = 30

// Extract returns the rows of t matching ticker whose timestamp lies within
// radiusDays of ref, inclusive on both ends, sorted ascending by timestamp
// and reindexed from zero. Derived columns are carried along. The input
// table is never modified; no match yields an empty table, not an error.
func Extract(t *table.Table, ticker string, ref time.Time, radiusDays int) *table.Table {
	radius := time.Duration(radiusDays) * 24 * time.Hour
	lo := ref.Add(-radius)
	hi := ref.Add(radius)

	var indices []int
	for i, bar := range t.Bars {
		if bar.Ticker != ticker {
			continue
		}
		if bar.Timestamp.Before(lo) || bar.Timestamp.After(hi) {
			continue
		}
		indices = append(indices, i)
	}

	out := t.Subset(indices)
	out.SortStable(func(a, b domain.Bar) bool {
		return a.Timestamp.Before(b.Timestamp)
	})
	return out
}

// FormatIntraday renders an extracted minute window into display rows: the
// timestamp becomes a fixed-format string and the raw timestamp and session
// date columns disappear. The result is validated against the display
// shape. Derived columns, like all columns outside the display set, are
// dropped.
func FormatIntraday(w *table.Table) ([]domain.DisplayBar, error) {
	rows := make([]domain.DisplayBar, 0, w.Len())
	for _, bar := range w.Bars {
		rows = append(rows, domain.DisplayBar{
			Ticker: bar.Ticker,
			Time:   bar.Timestamp.Format(domain.DisplayTimeFormat),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}

	if err := schema.ValidateDisplay(rows); err != nil {
		return nil, fmt.Errorf("formatting intraday window: %w", err)
	}
	return rows, nil
}
