package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"chartnav/internal/domain"
)

// Compile-time interface checks.
var _ TableSource = (*ParquetSource)(nil)
var _ TableSink = (*ParquetSource)(nil)

// ParquetSource reads and writes table resources as Parquet files under a
// data directory. Resource "default" maps to <DataDir>/default.parquet.
type ParquetSource struct {
	DataDir string
}

// NewParquetSource creates a ParquetSource rooted at the given directory.
func NewParquetSource(dataDir string) *ParquetSource {
	return &ParquetSource{DataDir: dataDir}
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// dailyRecord is the Parquet schema for daily catalog and data resources.
// Volume is stored as float64 by the pandas/feather exporters that produce
// these files; it is coerced to int64 on read.
type dailyRecord struct {
	Ticker string  `parquet:"ticker"`
	Date   int64   `parquet:"date,timestamp(millisecond)"` // Unix ms, UTC midnight
	Open   float64 `parquet:"open"`
	High   float64 `parquet:"high"`
	Low    float64 `parquet:"low"`
	Close  float64 `parquet:"close"`
	Volume float64 `parquet:"volume"`
}

// minuteRecord is the Parquet schema for minute data resources. Datetime is
// an RFC 3339 string and may carry a zone offset; Date is the session date.
type minuteRecord struct {
	Ticker   string  `parquet:"ticker"`
	Datetime string  `parquet:"datetime"`
	Date     int64   `parquet:"date,timestamp(millisecond)"`
	Open     float64 `parquet:"open"`
	High     float64 `parquet:"high"`
	Low      float64 `parquet:"low"`
	Close    float64 `parquet:"close"`
	Volume   float64 `parquet:"volume"`
}

// ---------------------------------------------------------------------------
// TableSource implementation
// ---------------------------------------------------------------------------

// ReadDaily reads the daily rows of the named resource.
func (s *ParquetSource) ReadDaily(_ context.Context, resource string) ([]domain.Bar, error) {
	records, err := readParquetFile[dailyRecord](s.path(resource))
	if err != nil {
		return nil, wrapRead(resource, err)
	}

	bars := make([]domain.Bar, 0, len(records))
	for _, r := range records {
		bars = append(bars, domain.Bar{
			Ticker:    r.Ticker,
			Timestamp: time.UnixMilli(r.Date).UTC(),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    int64(r.Volume),
		})
	}
	return bars, nil
}

// ReadMinute reads the minute rows of the named resource. The datetime
// column is parsed as RFC 3339; a row that fails to parse fails the read.
func (s *ParquetSource) ReadMinute(_ context.Context, resource string) ([]domain.Bar, error) {
	records, err := readParquetFile[minuteRecord](s.path(resource))
	if err != nil {
		return nil, wrapRead(resource, err)
	}

	bars := make([]domain.Bar, 0, len(records))
	for i, r := range records {
		ts, err := time.Parse(time.RFC3339, r.Datetime)
		if err != nil {
			return nil, fmt.Errorf("resource %s: row %d: parsing datetime %q: %w", resource, i, r.Datetime, err)
		}
		bars = append(bars, domain.Bar{
			Ticker:    r.Ticker,
			Timestamp: ts,
			Day:       time.UnixMilli(r.Date).UTC(),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    int64(r.Volume),
		})
	}
	return bars, nil
}

// ---------------------------------------------------------------------------
// TableSink implementation
// ---------------------------------------------------------------------------

// WriteDaily merges bars into the named resource, deduplicating by
// (ticker, timestamp) with incoming rows winning, sorted by (ticker, date).
func (s *ParquetSource) WriteDaily(_ context.Context, resource string, bars []domain.Bar) error {
	incoming := make([]dailyRecord, 0, len(bars))
	for _, b := range bars {
		incoming = append(incoming, dailyRecord{
			Ticker: b.Ticker,
			Date:   b.Timestamp.UnixMilli(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}

	path := s.path(resource)
	existing, _ := readParquetFile[dailyRecord](path)
	merged := mergeDailyRecords(existing, incoming)

	if err := writeParquetFile(path, merged); err != nil {
		return fmt.Errorf("writing resource %s: %w", resource, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *ParquetSource) path(resource string) string {
	return filepath.Join(s.DataDir, resource+".parquet")
}

func wrapRead(resource string, err error) error {
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, resource)
	}
	return fmt.Errorf("reading resource %s: %w", resource, err)
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}

// mergeDailyRecords deduplicates by (ticker, date), preferring incoming
// records over existing ones. Results are sorted by (ticker, date).
func mergeDailyRecords(existing, incoming []dailyRecord) []dailyRecord {
	type key struct {
		ticker string
		date   int64
	}
	seen := make(map[key]dailyRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.Ticker, r.Date}] = r
	}
	for _, r := range incoming {
		seen[key{r.Ticker, r.Date}] = r
	}

	merged := make([]dailyRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Ticker != merged[j].Ticker {
			return merged[i].Ticker < merged[j].Ticker
		}
		return merged[i].Date < merged[j].Date
	})
	return merged
}
