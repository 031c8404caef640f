package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chartnav/internal/config"
	"chartnav/internal/gather"
	"chartnav/internal/store"
	"chartnav/internal/util"
)

func main() {
	cfgPath := "config/chartnav.yaml"
	if p := os.Getenv("CHARTNAV_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	util.SetDefault(logger)

	if len(cfg.Gather.Symbols) == 0 {
		log.Fatal("no symbols configured under gather.symbols")
	}

	sink := store.NewParquetSource(cfg.Storage.DataDir)

	g := gather.NewDailyResourceGatherer(
		cfg.Alpaca.APIKey,
		cfg.Alpaca.APISecret,
		cfg.Alpaca.DataURL,
		sink,
		cfg.Gather.Symbols,
		cfg.Gather.StartDate,
		cfg.Gather.BatchSize,
		cfg.Gather.RateLimitPerMin,
		cfg.Catalog.DictResource,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting backfill", "gatherer", g.Name(), "symbols", len(cfg.Gather.Symbols))
	if err := g.Run(ctx); err != nil {
		log.Fatalf("backfill error: %v", err)
	}
}
