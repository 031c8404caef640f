// Package chartnav provides a Go client for the chartnav HTTP API.
package chartnav

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Metadata describes the chart a catalog entry points at.
type Metadata struct {
	Ticker    string    `json:"ticker"`
	DateStr   string    `json:"date_str"`
	Date      time.Time `json:"date"`
	Timeframe string    `json:"timeframe"`
	Index     int       `json:"index"`
	Watermark string    `json:"watermark"`
}

// Row is one window row. Indicator values in warmup rows are nil.
type Row struct {
	Time       string              `json:"time"`
	Open       float64             `json:"open"`
	High       float64             `json:"high"`
	Low        float64             `json:"low"`
	Close      float64             `json:"close"`
	Volume     int64               `json:"volume"`
	Indicators map[string]*float64 `json:"indicators,omitempty"`
}

// Chart is a window of rows plus the metadata of the entry it was loaded
// for.
type Chart struct {
	Metadata Metadata `json:"metadata"`
	Rows     []Row    `json:"rows"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chartnav: %d %s", e.StatusCode, e.Message)
}

// Client talks to a chartnav server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL, for example
// "http://localhost:8090".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Catalogs lists the catalog names the server exposes.
func (c *Client) Catalogs(ctx context.Context) ([]string, error) {
	var out struct {
		Catalogs []string `json:"catalogs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/catalogs", nil, &out); err != nil {
		return nil, err
	}
	return out.Catalogs, nil
}

// Chart loads the chart at the catalog's cursor without moving it.
func (c *Client) Chart(ctx context.Context, name string) (*Chart, error) {
	return c.chart(ctx, http.MethodGet, "/api/catalogs/"+url.PathEscape(name)+"/chart", nil)
}

// ChartAt loads the chart at the given position without moving the cursor.
func (c *Client) ChartAt(ctx context.Context, name string, index int) (*Chart, error) {
	path := "/api/catalogs/" + url.PathEscape(name) + "/chart?index=" + strconv.Itoa(index)
	return c.chart(ctx, http.MethodGet, path, nil)
}

// Next advances the cursor with wraparound and loads the chart it lands on.
func (c *Client) Next(ctx context.Context, name string) (*Chart, error) {
	return c.chart(ctx, http.MethodPost, "/api/catalogs/"+url.PathEscape(name)+"/next", nil)
}

// Previous moves the cursor back with wraparound and loads the chart it
// lands on.
func (c *Client) Previous(ctx context.Context, name string) (*Chart, error) {
	return c.chart(ctx, http.MethodPost, "/api/catalogs/"+url.PathEscape(name)+"/previous", nil)
}

// Metadata reads the metadata at the given position without loading the
// window.
func (c *Client) Metadata(ctx context.Context, name string, index int) (*Metadata, error) {
	path := "/api/catalogs/" + url.PathEscape(name) + "/metadata?index=" + strconv.Itoa(index)
	var meta Metadata
	if err := c.do(ctx, http.MethodGet, path, nil, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// SetIndex moves the cursor to the given position.
func (c *Client) SetIndex(ctx context.Context, name string, index int) error {
	body := map[string]int{"index": index}
	return c.do(ctx, http.MethodPut, "/api/catalogs/"+url.PathEscape(name)+"/index", body, nil)
}

// SetTimeframe switches the display timeframe label of an intraday catalog.
func (c *Client) SetTimeframe(ctx context.Context, name, timeframe string) error {
	body := map[string]string{"timeframe": timeframe}
	return c.do(ctx, http.MethodPut, "/api/catalogs/"+url.PathEscape(name)+"/timeframe", body, nil)
}

func (c *Client) chart(ctx context.Context, method, path string, body any) (*Chart, error) {
	var chart Chart
	if err := c.do(ctx, method, path, body, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}
