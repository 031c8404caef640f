// Package schema validates tables against the three shapes the engine
// accepts: daily catalog/data tables, minute data tables, and intraday
// display tables. Validation is filter-strict: columns outside the declared
// set (for example derived indicator columns) are ignored, never an error.
package schema

import (
	"errors"
	"fmt"
	"time"

	"chartnav/internal/domain"
	"chartnav/internal/table"
)

// ErrSchema is wrapped by every validation failure.
var ErrSchema = errors.New("schema violation")

// Schema names, reported in validation errors.
const (
	Daily           = "daily"
	Minute          = "minute"
	IntradayDisplay = "intraday-display"
)

// ValidateDaily checks a daily-shape table: non-empty ticker, non-zero date,
// non-negative OHLCV. It reports the first failing row and column.
func ValidateDaily(t *table.Table) error {
	for i, bar := range t.Bars {
		if err := checkBar(bar); err != nil {
			return fmt.Errorf("%w: %s: row %d: %s", ErrSchema, Daily, i, err)
		}
	}
	return nil
}

// ValidateMinute checks a minute-shape table. On top of the daily checks it
// requires the auxiliary session date and a zone-less primary timestamp.
func ValidateMinute(t *table.Table) error {
	for i, bar := range t.Bars {
		if err := checkBar(bar); err != nil {
			return fmt.Errorf("%w: %s: row %d: %s", ErrSchema, Minute, i, err)
		}
		if bar.Day.IsZero() {
			return fmt.Errorf("%w: %s: row %d: date: missing value", ErrSchema, Minute, i)
		}
		if _, offset := bar.Timestamp.Zone(); offset != 0 {
			return fmt.Errorf("%w: %s: row %d: datetime: carries a zone offset", ErrSchema, Minute, i)
		}
	}
	return nil
}

// ValidateDisplay checks intraday display rows: non-empty ticker, a time
// string in the fixed display layout, non-negative OHLCV.
func ValidateDisplay(rows []domain.DisplayBar) error {
	for i, row := range rows {
		if row.Ticker == "" {
			return fmt.Errorf("%w: %s: row %d: ticker: missing value", ErrSchema, IntradayDisplay, i)
		}
		if _, err := time.Parse(domain.DisplayTimeFormat, row.Time); err != nil {
			return fmt.Errorf("%w: %s: row %d: time: %q is not %q", ErrSchema, IntradayDisplay, i, row.Time, domain.DisplayTimeFormat)
		}
		if err := checkOHLCV(row.Open, row.High, row.Low, row.Close, row.Volume); err != nil {
			return fmt.Errorf("%w: %s: row %d: %s", ErrSchema, IntradayDisplay, i, err)
		}
	}
	return nil
}

func checkBar(bar domain.Bar) error {
	if bar.Ticker == "" {
		return errors.New("ticker: missing value")
	}
	if bar.Timestamp.IsZero() {
		return errors.New("date: missing value")
	}
	return checkOHLCV(bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
}

func checkOHLCV(open, high, low, close float64, volume int64) error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"open", open},
		{"high", high},
		{"low", low},
		{"close", close},
	} {
		if c.value < 0 {
			return fmt.Errorf("%s: negative value %v", c.name, c.value)
		}
	}
	if volume < 0 {
		return fmt.Errorf("volume: negative value %d", volume)
	}
	return nil
}
