package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"chartnav/internal/domain"
	"chartnav/internal/store"
)

// fakeSource serves in-memory rows keyed by resource name.
type fakeSource struct {
	daily  map[string][]domain.Bar
	minute map[string][]domain.Bar
}

func (f *fakeSource) ReadDaily(_ context.Context, resource string) ([]domain.Bar, error) {
	rows, ok := f.daily[resource]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rows, nil
}

func (f *fakeSource) ReadMinute(_ context.Context, resource string) ([]domain.Bar, error) {
	rows, ok := f.minute[resource]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rows, nil
}

func date(d int) time.Time {
	return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC)
}

func bar(ticker string, ts time.Time, close float64) domain.Bar {
	return domain.Bar{
		Ticker: ticker, Timestamp: ts,
		Open: close - 1, High: close + 1, Low: close - 2, Close: close,
		Volume: 1000,
	}
}

func TestLoadDailySortsAndDedupes(t *testing.T) {
	src := &fakeSource{daily: map[string][]domain.Bar{
		"default": {
			bar("MSFT", date(2), 240),
			bar("AAPL", date(3), 104),
			bar("AAPL", date(1), 100),
			bar("AAPL", date(1), 999), // duplicate pair, first kept
			bar("AAPL", date(2), 102),
		},
	}}

	tbl, err := LoadDaily(context.Background(), src, "default")
	if err != nil {
		t.Fatalf("LoadDaily: %v", err)
	}

	if tbl.Len() != 4 {
		t.Fatalf("Len = %d, want 4 after dedup", tbl.Len())
	}

	// Strictly ascending by (ticker, date), no duplicates.
	for i := 1; i < tbl.Len(); i++ {
		prev, cur := tbl.Bars[i-1], tbl.Bars[i]
		if prev.Ticker > cur.Ticker {
			t.Fatalf("row %d: ticker order %q > %q", i, prev.Ticker, cur.Ticker)
		}
		if prev.Ticker == cur.Ticker && !prev.Timestamp.Before(cur.Timestamp) {
			t.Fatalf("row %d: timestamps not strictly ascending", i)
		}
	}

	// Dedup kept the first occurrence.
	if tbl.Bars[0].Close != 100 {
		t.Errorf("dedup kept close %v, want 100 (first occurrence)", tbl.Bars[0].Close)
	}
}

func TestLoadDailyMissingResource(t *testing.T) {
	src := &fakeSource{daily: map[string][]domain.Bar{}}
	_, err := LoadDaily(context.Background(), src, "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLoadDailyValidates(t *testing.T) {
	bad := bar("AAPL", date(1), 100)
	bad.Open = -5
	src := &fakeSource{daily: map[string][]domain.Bar{"default": {bad}}}

	if _, err := LoadDaily(context.Background(), src, "default"); err == nil {
		t.Error("negative open should fail the load")
	}
}

func TestLoadMinuteStripsZone(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	b := bar("AAPL", time.Date(2023, 1, 15, 9, 30, 0, 0, est), 100)
	b.Day = date(15)
	src := &fakeSource{minute: map[string][]domain.Bar{"default_min": {b}}}

	tbl, err := LoadMinute(context.Background(), src, "default_min")
	if err != nil {
		t.Fatalf("LoadMinute: %v", err)
	}

	got := tbl.Bars[0].Timestamp
	if _, offset := got.Zone(); offset != 0 {
		t.Errorf("timestamp still carries offset %d", offset)
	}
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Errorf("wall clock changed: %v", got)
	}
	if tbl.Bars[0].Day.IsZero() {
		t.Error("session date should survive the load")
	}
}

func TestLoadMinuteSorts(t *testing.T) {
	mk := func(hour int) domain.Bar {
		b := bar("AAPL", time.Date(2023, 1, 15, hour, 0, 0, 0, time.UTC), 100)
		b.Day = date(15)
		return b
	}
	src := &fakeSource{minute: map[string][]domain.Bar{
		"default_min": {mk(11), mk(9), mk(10)},
	}}

	tbl, err := LoadMinute(context.Background(), src, "default_min")
	if err != nil {
		t.Fatalf("LoadMinute: %v", err)
	}
	for i, wantHour := range []int{9, 10, 11} {
		if tbl.Bars[i].Timestamp.Hour() != wantHour {
			t.Errorf("row %d hour = %d, want %d", i, tbl.Bars[i].Timestamp.Hour(), wantHour)
		}
	}
}
