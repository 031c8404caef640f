// Package table provides the in-memory table of price bars that the loader,
// window extractor, and indicator engine operate on. A Table is an ordered
// slice of bars plus zero or more derived float64 columns aligned to the
// bars by index.
package table

import (
	"fmt"
	"sort"

	"chartnav/internal/domain"
)

// Table holds price bars and derived indicator columns. Row identity is the
// dense slice index; every operation that reorders or filters rows keeps
// the derived columns aligned.
type Table struct {
	Bars []domain.Bar

	columns []string
	values  map[string][]float64
}

// New creates a Table over the given bars with no derived columns.
func New(bars []domain.Bar) *Table {
	return &Table{
		Bars:   bars,
		values: make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Bars)
}

// AddColumn appends a derived column aligned to the current rows. Adding a
// column that already exists replaces its values but keeps its position.
func (t *Table) AddColumn(name string, vals []float64) error {
	if len(vals) != len(t.Bars) {
		return fmt.Errorf("column %s: %d values for %d rows", name, len(vals), len(t.Bars))
	}
	if _, exists := t.values[name]; !exists {
		t.columns = append(t.columns, name)
	}
	t.values[name] = vals
	return nil
}

// Columns returns the derived column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the values of a derived column. The second return value
// reports whether the column exists.
func (t *Table) Column(name string) ([]float64, bool) {
	vals, ok := t.values[name]
	return vals, ok
}

// Subset returns a new Table containing the rows at the given indices, in
// the given order, with derived columns carried along. The receiver is not
// modified.
func (t *Table) Subset(indices []int) *Table {
	bars := make([]domain.Bar, len(indices))
	for i, idx := range indices {
		bars[i] = t.Bars[idx]
	}

	out := New(bars)
	for _, name := range t.columns {
		src := t.values[name]
		vals := make([]float64, len(indices))
		for i, idx := range indices {
			vals[i] = src[idx]
		}
		out.columns = append(out.columns, name)
		out.values[name] = vals
	}
	return out
}

// SortStable reorders the rows in place using a stable sort, keeping every
// derived column aligned.
func (t *Table) SortStable(less func(a, b domain.Bar) bool) {
	indices := make([]int, len(t.Bars))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return less(t.Bars[indices[i]], t.Bars[indices[j]])
	})

	sorted := t.Subset(indices)
	t.Bars = sorted.Bars
	t.values = sorted.values
}
