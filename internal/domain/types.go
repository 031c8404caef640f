// Package domain defines the core value types shared across the chartnav
// engine: price bars, display rows, and per-chart metadata.
package domain

import "time"

// Timeframe display labels. Daily catalogs always report DailyTimeframe;
// intraday catalogs start at DefaultIntradayTimeframe and may be switched at
// runtime.
const (
	DailyTimeframe           = "1D"
	DefaultIntradayTimeframe = "1M"
)

// DateFormat is the calendar-date layout used for metadata and file names.
const DateFormat = "2006-01-02"

// DisplayTimeFormat is the layout used for intraday display rows.
const DisplayTimeFormat = "2006-01-02 15:04:05"

// Bar is a single OHLCV price bar. For daily data Timestamp is the calendar
// date; for minute data Timestamp is the bar time and Day carries the
// session date, used only for windowing and stripped before display.
type Bar struct {
	Ticker    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Day       time.Time
}

// DisplayBar is a display-ready intraday row. Time is the bar time rendered
// as a fixed string; the raw timestamp and session date are already removed.
type DisplayBar struct {
	Ticker string
	Time   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// ChartMeta describes one catalog entry. It accompanies every loaded window
// and is safe to copy; mutating it has no effect on the owning catalog.
type ChartMeta struct {
	Ticker    string
	DateStr   string
	Date      time.Time
	Timeframe string
	Index     int

	// HasTimeframe reports whether Timeframe carries a meaningful label.
	// Consumers composing watermark text should fall back to a plain
	// ticker/date caption when it is false.
	HasTimeframe bool
}

// Watermark returns the caption consumers overlay on a rendered chart.
func (m ChartMeta) Watermark() string {
	if !m.HasTimeframe {
		return m.Ticker + " " + m.DateStr
	}
	return m.Ticker + " " + m.Timeframe + " " + m.DateStr
}

// FileStem returns the TICKER_YYYY-MM-DD stem used when persisting chart
// captures.
func (m ChartMeta) FileStem() string {
	return m.Ticker + "_" + m.DateStr
}
