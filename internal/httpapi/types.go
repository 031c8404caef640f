package httpapi

import (
	"math"
	"time"

	"chartnav/internal/catalog"
	"chartnav/internal/domain"
	"chartnav/internal/table"
)

// MetaPayload is the JSON rendering of chart metadata.
type MetaPayload struct {
	Ticker    string    `json:"ticker"`
	DateStr   string    `json:"date_str"`
	Date      time.Time `json:"date"`
	Timeframe string    `json:"timeframe"`
	Index     int       `json:"index"`
	Watermark string    `json:"watermark"`
}

// RowPayload is one window row. Daily rows carry the catalog date and any
// indicator values; intraday rows carry the preformatted time string.
// Indicator values that are undefined (warmup rows) are null.
type RowPayload struct {
	Time       string              `json:"time"`
	Open       float64             `json:"open"`
	High       float64             `json:"high"`
	Low        float64             `json:"low"`
	Close      float64             `json:"close"`
	Volume     int64               `json:"volume"`
	Indicators map[string]*float64 `json:"indicators,omitempty"`
}

// ChartResponse is the payload for every chart-loading endpoint.
type ChartResponse struct {
	Metadata MetaPayload  `json:"metadata"`
	Rows     []RowPayload `json:"rows"`
}

// IndexRequest sets the cursor directly.
type IndexRequest struct {
	Index int `json:"index"`
}

// TimeframeRequest switches the intraday display timeframe label.
type TimeframeRequest struct {
	Timeframe string `json:"timeframe"`
}

func metaPayload(meta domain.ChartMeta) MetaPayload {
	return MetaPayload{
		Ticker:    meta.Ticker,
		DateStr:   meta.DateStr,
		Date:      meta.Date,
		Timeframe: meta.Timeframe,
		Index:     meta.Index,
		Watermark: meta.Watermark(),
	}
}

func chartResponse(w catalog.Window, meta domain.ChartMeta) ChartResponse {
	resp := ChartResponse{Metadata: metaPayload(meta), Rows: []RowPayload{}}

	switch win := w.(type) {
	case *table.Table:
		cols := win.Columns()
		for i, bar := range win.Bars {
			row := RowPayload{
				Time:   bar.Timestamp.Format(domain.DateFormat),
				Open:   bar.Open,
				High:   bar.High,
				Low:    bar.Low,
				Close:  bar.Close,
				Volume: bar.Volume,
			}
			if len(cols) > 0 {
				row.Indicators = make(map[string]*float64, len(cols))
				for _, name := range cols {
					vals, _ := win.Column(name)
					if math.IsNaN(vals[i]) {
						row.Indicators[name] = nil
						continue
					}
					v := vals[i]
					row.Indicators[name] = &v
				}
			}
			resp.Rows = append(resp.Rows, row)
		}
	case catalog.DisplayWindow:
		for _, r := range win {
			resp.Rows = append(resp.Rows, RowPayload{
				Time:   r.Time,
				Open:   r.Open,
				High:   r.High,
				Low:    r.Low,
				Close:  r.Close,
				Volume: r.Volume,
			})
		}
	}
	return resp
}
