package window

import (
	"math"
	"testing"
	"time"

	"chartnav/internal/domain"
	"chartnav/internal/table"
)

func bar(ticker string, ts time.Time, close float64) domain.Bar {
	return domain.Bar{
		Ticker: ticker, Timestamp: ts,
		Open: close - 1, High: close + 1, Low: close - 2, Close: close,
		Volume: 1000,
	}
}

// spanTable builds an AAPL table covering 2023-01-01..2023-04-10 plus one
// MSFT row inside the range.
func spanTable(t *testing.T) *table.Table {
	t.Helper()
	var bars []domain.Bar
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		bars = append(bars, bar("AAPL", d, 100))
	}
	bars = append(bars, bar("MSFT", time.Date(2023, 2, 15, 0, 0, 0, 0, time.UTC), 240))
	return table.New(bars)
}

func TestExtractBounds(t *testing.T) {
	tbl := spanTable(t)
	ref := time.Date(2023, 2, 15, 0, 0, 0, 0, time.UTC)

	got := Extract(tbl, "AAPL", ref, DefaultDailyRadiusDays)

	wantFirst := time.Date(2023, 1, 16, 0, 0, 0, 0, time.UTC)
	wantLast := time.Date(2023, 3, 17, 0, 0, 0, 0, time.UTC)
	if got.Len() != 61 {
		t.Fatalf("window has %d rows, want 61 (30+1+30)", got.Len())
	}
	if !got.Bars[0].Timestamp.Equal(wantFirst) {
		t.Errorf("first row = %v, want %v (inclusive lower bound)", got.Bars[0].Timestamp, wantFirst)
	}
	if !got.Bars[got.Len()-1].Timestamp.Equal(wantLast) {
		t.Errorf("last row = %v, want %v (inclusive upper bound)", got.Bars[got.Len()-1].Timestamp, wantLast)
	}
	for _, b := range got.Bars {
		if b.Ticker != "AAPL" {
			t.Fatalf("foreign ticker %q in window", b.Ticker)
		}
	}
	for i := 1; i < got.Len(); i++ {
		if !got.Bars[i-1].Timestamp.Before(got.Bars[i].Timestamp) {
			t.Fatal("window not sorted ascending")
		}
	}
}

func TestExtractIsPureAndIdempotent(t *testing.T) {
	tbl := spanTable(t)
	ref := time.Date(2023, 2, 15, 0, 0, 0, 0, time.UTC)
	before := tbl.Len()

	first := Extract(tbl, "AAPL", ref, 10)
	second := Extract(tbl, "AAPL", ref, 10)

	if tbl.Len() != before {
		t.Error("Extract mutated its input table")
	}
	if first.Len() != second.Len() {
		t.Fatalf("extraction not idempotent: %d vs %d rows", first.Len(), second.Len())
	}
	for i := range first.Bars {
		if first.Bars[i] != second.Bars[i] {
			t.Fatalf("row %d differs between identical extractions", i)
		}
	}
}

func TestExtractNoMatch(t *testing.T) {
	tbl := spanTable(t)
	ref := time.Date(2023, 2, 15, 0, 0, 0, 0, time.UTC)

	if got := Extract(tbl, "GOOG", ref, 30); got.Len() != 0 {
		t.Errorf("unknown ticker: %d rows, want empty window", got.Len())
	}

	far := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := Extract(tbl, "AAPL", far, 30); got.Len() != 0 {
		t.Errorf("out-of-range reference: %d rows, want empty window", got.Len())
	}
}

func TestExtractCarriesDerivedColumns(t *testing.T) {
	bars := []domain.Bar{
		bar("AAPL", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 100),
		bar("AAPL", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), 102),
	}
	tbl := table.New(bars)
	if err := tbl.AddColumn("SMA_2", []float64{math.NaN(), 101}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}

	got := Extract(tbl, "AAPL", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), 1)
	vals, ok := got.Column("SMA_2")
	if !ok {
		t.Fatal("derived column lost in extraction")
	}
	if len(vals) != 2 || vals[1] != 101 {
		t.Errorf("derived column values = %v, want [NaN 101]", vals)
	}
}

func TestFormatIntraday(t *testing.T) {
	b := bar("AAPL", time.Date(2023, 1, 15, 9, 30, 0, 0, time.UTC), 100)
	b.Day = time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	tbl := table.New([]domain.Bar{b})

	rows, err := FormatIntraday(tbl)
	if err != nil {
		t.Fatalf("FormatIntraday: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Time != "2023-01-15 09:30:00" {
		t.Errorf("Time = %q, want %q", rows[0].Time, "2023-01-15 09:30:00")
	}
	if rows[0].Ticker != "AAPL" || rows[0].Close != 100 {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestFormatIntradayEmpty(t *testing.T) {
	rows, err := FormatIntraday(table.New(nil))
	if err != nil {
		t.Fatalf("FormatIntraday on empty window: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}
