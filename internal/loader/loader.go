// Package loader turns raw resource rows into clean, validated tables.
// Deduplication and sorting happen here, up front, so that everything
// downstream can assume an ordered table and never re-sort or re-validate.
package loader

import (
	"context"
	"fmt"

	"chartnav/internal/domain"
	"chartnav/internal/schema"
	"chartnav/internal/store"
	"chartnav/internal/table"
	"chartnav/internal/util"
)

// LoadDaily reads a daily-shape resource, removes duplicate (ticker, date)
// pairs keeping the first occurrence, sorts ascending by (ticker, date),
// and validates the result. Any failure aborts the load; there are no
// partial results.
func LoadDaily(ctx context.Context, src store.TableSource, resource string) (*table.Table, error) {
	bars, err := src.ReadDaily(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("loading daily resource %s: %w", resource, err)
	}

	bars = dedupeKeepFirst(bars)
	t := table.New(bars)
	t.SortStable(byTickerTime)

	if err := schema.ValidateDaily(t); err != nil {
		return nil, fmt.Errorf("loading daily resource %s: %w", resource, err)
	}
	return t, nil
}

// LoadMinute reads a minute-shape resource, strips the zone from each bar
// timestamp (keeping the wall-clock reading), sorts ascending by
// (ticker, timestamp), and validates the result.
func LoadMinute(ctx context.Context, src store.TableSource, resource string) (*table.Table, error) {
	bars, err := src.ReadMinute(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("loading minute resource %s: %w", resource, err)
	}

	for i := range bars {
		bars[i].Timestamp = util.StripZone(bars[i].Timestamp)
	}
	t := table.New(bars)
	t.SortStable(byTickerTime)

	if err := schema.ValidateMinute(t); err != nil {
		return nil, fmt.Errorf("loading minute resource %s: %w", resource, err)
	}
	return t, nil
}

func byTickerTime(a, b domain.Bar) bool {
	if a.Ticker != b.Ticker {
		return a.Ticker < b.Ticker
	}
	return a.Timestamp.Before(b.Timestamp)
}

// dedupeKeepFirst drops rows whose (ticker, timestamp) pair has been seen
// before, preserving input order otherwise.
func dedupeKeepFirst(bars []domain.Bar) []domain.Bar {
	type key struct {
		ticker string
		ts     int64
	}
	seen := make(map[key]struct{}, len(bars))
	out := bars[:0:0]
	for _, b := range bars {
		k := key{b.Ticker, b.Timestamp.UnixNano()}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, b)
	}
	return out
}
