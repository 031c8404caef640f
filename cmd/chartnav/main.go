package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chartnav/internal/catalog"
	"chartnav/internal/config"
	"chartnav/internal/httpapi"
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

	src, cleanup, err := openSource(cfg)
	if err != nil {
		log.Fatalf("opening %s source: %v", cfg.Storage.Backend, err)
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	daily, err := catalog.NewDaily(ctx, src,
		cfg.Catalog.DictResource, cfg.Catalog.DataResource,
		cfg.Catalog.NDaysDaily, cfg.Indicators)
	if err != nil {
		log.Fatalf("building daily catalog: %v", err)
	}
	logger.Info("daily catalog loaded", "charts", daily.Len())

	srv := httpapi.NewServer(logger)
	srv.Register("daily", daily)

	// The intraday catalog is optional; serve daily-only when the minute
	// resource is absent.
	intraday, err := catalog.NewIntraday(ctx, src,
		cfg.Catalog.DictResource, cfg.Catalog.MinuteResource,
		cfg.Catalog.NDaysIntraday, cfg.Indicators)
	switch {
	case err == nil:
		srv.Register("intraday", intraday)
		logger.Info("intraday catalog loaded", "charts", intraday.Len())
	case errors.Is(err, store.ErrNotFound):
		logger.Warn("minute resource missing, intraday catalog disabled",
			"resource", cfg.Catalog.MinuteResource)
	default:
		log.Fatalf("building intraday catalog: %v", err)
	}

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		logger.Info("chartnav listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down chartnav")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func openSource(cfg *config.Config) (store.TableSource, func(), error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		src, err := store.NewSQLiteSource(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil
	default:
		return store.NewParquetSource(cfg.Storage.DataDir), func() {}, nil
	}
}
