// Package indicator computes derived columns over a price table. Indicators
// are configured as a list of {name, parameters} entries; entries with an
// unknown name or unusable parameters are skipped silently so that one bad
// config line never takes the catalog down.
package indicator

import (
	"fmt"
	"log/slog"
	"math"

	"chartnav/internal/table"
)

// Spec configures a single indicator. Parameters are free-form; each
// indicator picks out the keys it understands.
type Spec struct {
	Name       string         `yaml:"name"`
	Parameters map[string]any `yaml:"parameters"`
}

// Engine applies a configured list of indicators to tables.
type Engine struct {
	specs []Spec
	log   *slog.Logger
}

// NewEngine creates an Engine for the given indicator specs.
func NewEngine(specs []Spec) *Engine {
	return &Engine{
		specs: specs,
		log:   slog.Default().With("component", "indicator"),
	}
}

// Apply computes every configured indicator per ticker group and appends
// the resulting columns to t. Rows are never reordered, dropped, or
// otherwise changed; row count is invariant. Unknown indicator names and
// entries without a usable period are no-ops.
func (e *Engine) Apply(t *table.Table) *table.Table {
	for _, spec := range e.specs {
		switch spec.Name {
		case "SMA":
			period, ok := intParam(spec.Parameters, "period")
			if !ok || period <= 0 {
				e.log.Debug("skipping SMA entry without usable period")
				continue
			}
			name := fmt.Sprintf("SMA_%d", period)
			// Row count matches by construction, AddColumn cannot fail.
			_ = t.AddColumn(name, rollingMeanClose(t, period))
		default:
			e.log.Debug("skipping unknown indicator", "name", spec.Name)
		}
	}
	return t
}

// rollingMeanClose computes the trailing rolling mean of close over period
// bars within each ticker group, aligned to the table's row order. The
// first period-1 values of each group are NaN.
func rollingMeanClose(t *table.Table, period int) []float64 {
	closes := make(map[string][]float64, 8)
	sums := make(map[string]float64, 8)

	out := make([]float64, t.Len())
	for i, bar := range t.Bars {
		hist := append(closes[bar.Ticker], bar.Close)
		closes[bar.Ticker] = hist
		sums[bar.Ticker] += bar.Close

		if len(hist) < period {
			out[i] = math.NaN()
			continue
		}
		if len(hist) > period {
			sums[bar.Ticker] -= hist[len(hist)-period-1]
		}
		out[i] = sums[bar.Ticker] / float64(period)
	}
	return out
}

func intParam(params map[string]any, key string) (int, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}
