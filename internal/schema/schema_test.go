package schema

import (
	"errors"
	"strings"
	"testing"
	"time"

	"chartnav/internal/domain"
	"chartnav/internal/table"
)

func validDaily() []domain.Bar {
	return []domain.Bar{
		{
			Ticker:    "AAPL",
			Timestamp: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			Open:      100, High: 105, Low: 99, Close: 104, Volume: 1000,
		},
	}
}

func TestValidateDaily(t *testing.T) {
	if err := ValidateDaily(table.New(validDaily())); err != nil {
		t.Fatalf("valid daily table rejected: %v", err)
	}
	if err := ValidateDaily(table.New(nil)); err != nil {
		t.Fatalf("empty table should validate: %v", err)
	}
}

func TestValidateDailyFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Bar)
		want   string
	}{
		{"missing ticker", func(b *domain.Bar) { b.Ticker = "" }, "ticker"},
		{"missing date", func(b *domain.Bar) { b.Timestamp = time.Time{} }, "date"},
		{"negative open", func(b *domain.Bar) { b.Open = -1 }, "open"},
		{"negative close", func(b *domain.Bar) { b.Close = -0.5 }, "close"},
		{"negative volume", func(b *domain.Bar) { b.Volume = -10 }, "volume"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bars := validDaily()
			tc.mutate(&bars[0])

			err := ValidateDaily(table.New(bars))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrSchema) {
				t.Errorf("error does not wrap ErrSchema: %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not name column %q", err, tc.want)
			}
		})
	}
}

func TestValidateDailyIgnoresDerivedColumns(t *testing.T) {
	tbl := table.New(validDaily())
	if err := tbl.AddColumn("SMA_20", []float64{-1}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	// Filter-strict: a derived column with out-of-range values is not the
	// validator's business.
	if err := ValidateDaily(tbl); err != nil {
		t.Errorf("derived column should be ignored: %v", err)
	}
}

func TestValidateMinute(t *testing.T) {
	bars := validDaily()
	bars[0].Timestamp = time.Date(2023, 1, 15, 9, 30, 0, 0, time.UTC)
	bars[0].Day = time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)

	if err := ValidateMinute(table.New(bars)); err != nil {
		t.Fatalf("valid minute table rejected: %v", err)
	}

	missingDay := validDaily()
	if err := ValidateMinute(table.New(missingDay)); err == nil {
		t.Error("minute row without session date should fail")
	}

	est := time.FixedZone("EST", -5*3600)
	zoned := validDaily()
	zoned[0].Day = time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	zoned[0].Timestamp = time.Date(2023, 1, 15, 9, 30, 0, 0, est)
	if err := ValidateMinute(table.New(zoned)); err == nil {
		t.Error("minute row with zoned timestamp should fail")
	}
}

func TestValidateDisplay(t *testing.T) {
	rows := []domain.DisplayBar{
		{Ticker: "AAPL", Time: "2023-01-15 09:30:00", Open: 1, High: 2, Low: 1, Close: 2, Volume: 5},
	}
	if err := ValidateDisplay(rows); err != nil {
		t.Fatalf("valid display rows rejected: %v", err)
	}

	rows[0].Time = "2023-01-15T09:30:00Z"
	if err := ValidateDisplay(rows); err == nil {
		t.Error("RFC3339 time string should fail the display layout check")
	}

	rows[0].Time = "2023-01-15 09:30:00"
	rows[0].Low = -3
	if err := ValidateDisplay(rows); err == nil || !strings.Contains(err.Error(), "low") {
		t.Errorf("negative low should fail naming the column, got %v", err)
	}
}
