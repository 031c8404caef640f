package gather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"chartnav/internal/domain"
	"chartnav/internal/store"
	"chartnav/internal/util"
)

// Compile-time interface check.
var _ Gatherer = (*DailyResourceGatherer)(nil)

// barsFetcher is the slice of the Alpaca market-data client the gatherer
// uses; narrowed for testability.
type barsFetcher interface {
	GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error)
}

// DailyResourceGatherer backfills daily OHLCV bars for a fixed symbol list
// and writes two resources: the full price history (the data resource) and
// a dictionary resource holding each symbol's most recent bar, which the
// daily catalog navigates.
type DailyResourceGatherer struct {
	client    barsFetcher
	sink      store.TableSink
	symbols   []string
	startDate string
	batchSize int
	limiter   *util.RateLimiter

	dictResource string
	dataResource string

	log *slog.Logger
}

// NewDailyResourceGatherer creates a gatherer configured with the given
// Alpaca credentials, target sink, and batch parameters. The data resource
// name is derived from the dictionary resource by the "_data" convention.
func NewDailyResourceGatherer(apiKey, apiSecret, dataURL string, sink store.TableSink, symbols []string, startDate string, batchSize, ratePerMin int, dictResource string) *DailyResourceGatherer {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}

	return &DailyResourceGatherer{
		client:       marketdata.NewClient(opts),
		sink:         sink,
		symbols:      symbols,
		startDate:    startDate,
		batchSize:    max(batchSize, 1),
		limiter:      util.NewRateLimiter(max(ratePerMin, 1)),
		dictResource: dictResource,
		dataResource: dictResource + "_data",
		log:          slog.Default().With("gatherer", "daily-resource"),
	}
}

// Name returns the gatherer identifier.
func (g *DailyResourceGatherer) Name() string { return "daily-resource" }

// Run fetches daily bars for every configured symbol from the start date
// through the last finished trading day and writes the data and dictionary
// resources. Bars already present in the resources are merged, so the run
// is idempotent.
func (g *DailyResourceGatherer) Run(ctx context.Context) error {
	start, err := time.Parse(domain.DateFormat, g.startDate)
	if err != nil {
		return fmt.Errorf("parsing start date %q: %w", g.startDate, err)
	}
	end := lastFinishedTradingDay(time.Now().UTC())

	runStart := time.Now()
	var bars []domain.Bar
	for i := 0; i < len(g.symbols); i += g.batchSize {
		batch := g.symbols[i:min(i+g.batchSize, len(g.symbols))]

		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}

		var fetched []domain.Bar
		err := util.Retry(ctx, 3, time.Second, func() error {
			var ferr error
			fetched, ferr = g.fetchMultiBars(batch, start, end)
			return ferr
		})
		if err != nil {
			return fmt.Errorf("fetching batch starting at %s: %w", batch[0], err)
		}

		g.log.Info("batch fetched", "symbols", len(batch), "bars", len(fetched))
		bars = append(bars, fetched...)
	}

	if err := g.sink.WriteDaily(ctx, g.dataResource, bars); err != nil {
		return fmt.Errorf("writing data resource: %w", err)
	}
	dict := latestPerTicker(bars)
	if err := g.sink.WriteDaily(ctx, g.dictResource, dict); err != nil {
		return fmt.Errorf("writing dictionary resource: %w", err)
	}

	g.log.Info("backfill complete",
		"symbols", len(g.symbols),
		"bars", len(bars),
		"charts", len(dict),
		"elapsed", time.Since(runStart).Round(time.Second),
	)
	return nil
}

func (g *DailyResourceGatherer) fetchMultiBars(symbols []string, start, end time.Time) ([]domain.Bar, error) {
	multiBars, err := g.client.GetMultiBars(symbols, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("GetMultiBars: %w", err)
	}

	var bars []domain.Bar
	for symbol, alpacaBars := range multiBars {
		for _, ab := range alpacaBars {
			bars = append(bars, domain.Bar{
				Ticker:    strings.ToUpper(symbol),
				Timestamp: util.Midnight(ab.Timestamp.UTC()),
				Open:      ab.Open,
				High:      ab.High,
				Low:       ab.Low,
				Close:     ab.Close,
				Volume:    int64(ab.Volume),
			})
		}
	}
	return bars, nil
}

// latestPerTicker reduces a bar set to each ticker's most recent bar.
func latestPerTicker(bars []domain.Bar) []domain.Bar {
	latest := make(map[string]domain.Bar, 64)
	for _, b := range bars {
		if cur, ok := latest[b.Ticker]; !ok || b.Timestamp.After(cur.Timestamp) {
			latest[b.Ticker] = b
		}
	}
	out := make([]domain.Bar, 0, len(latest))
	for _, b := range latest {
		out = append(out, b)
	}
	return out
}

// lastFinishedTradingDay returns the most recent weekday whose US session
// has ended, judged from UTC. Exchange holidays are not modelled; a
// holiday simply yields an empty fetch for that day.
func lastFinishedTradingDay(now time.Time) time.Time {
	day := util.Midnight(now)
	// Before 21:00 UTC the current session has not closed yet.
	if now.Hour() < 21 {
		day = day.AddDate(0, 0, -1)
	}
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
