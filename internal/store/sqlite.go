package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"chartnav/internal/domain"
)

// Compile-time interface check.
var _ TableSource = (*SQLiteSource)(nil)

// SQLiteSource reads table resources from a SQLite database. The resource
// name is the table name. Daily tables carry (ticker, date, open, high,
// low, close, volume) with date stored as a YYYY-MM-DD string; minute
// tables additionally carry an RFC 3339 datetime column.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens the SQLite database at dbPath.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteSource{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ReadDaily reads the daily rows of the named table.
func (s *SQLiteSource) ReadDaily(ctx context.Context, resource string) ([]domain.Bar, error) {
	if !identPattern.MatchString(resource) {
		return nil, fmt.Errorf("invalid resource name %q", resource)
	}

	query := fmt.Sprintf(`SELECT ticker, date, open, high, low, close, volume FROM %s`, resource)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapQuery(resource, err)
	}
	defer rows.Close()

	var bars []domain.Bar
	for rows.Next() {
		var (
			bar     domain.Bar
			dateStr string
			volume  float64
		)
		if err := rows.Scan(&bar.Ticker, &dateStr, &bar.Open, &bar.High, &bar.Low, &bar.Close, &volume); err != nil {
			return nil, fmt.Errorf("resource %s: %w", resource, err)
		}
		ts, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("resource %s: parsing date %q: %w", resource, dateStr, err)
		}
		bar.Timestamp = ts
		bar.Volume = int64(volume)
		bars = append(bars, bar)
	}
	return bars, rows.Err()
}

// ReadMinute reads the minute rows of the named table.
func (s *SQLiteSource) ReadMinute(ctx context.Context, resource string) ([]domain.Bar, error) {
	if !identPattern.MatchString(resource) {
		return nil, fmt.Errorf("invalid resource name %q", resource)
	}

	query := fmt.Sprintf(`SELECT ticker, datetime, date, open, high, low, close, volume FROM %s`, resource)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapQuery(resource, err)
	}
	defer rows.Close()

	var bars []domain.Bar
	for rows.Next() {
		var (
			bar         domain.Bar
			datetimeStr string
			dateStr     string
			volume      float64
		)
		if err := rows.Scan(&bar.Ticker, &datetimeStr, &dateStr, &bar.Open, &bar.High, &bar.Low, &bar.Close, &volume); err != nil {
			return nil, fmt.Errorf("resource %s: %w", resource, err)
		}
		ts, err := time.Parse(time.RFC3339, datetimeStr)
		if err != nil {
			return nil, fmt.Errorf("resource %s: parsing datetime %q: %w", resource, datetimeStr, err)
		}
		day, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("resource %s: parsing date %q: %w", resource, dateStr, err)
		}
		bar.Timestamp = ts
		bar.Day = day
		bar.Volume = int64(volume)
		bars = append(bars, bar)
	}
	return bars, rows.Err()
}

func wrapQuery(resource string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %s", ErrNotFound, resource)
	}
	return fmt.Errorf("reading resource %s: %w", resource, err)
}
