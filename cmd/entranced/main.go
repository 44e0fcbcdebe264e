package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/entrance-finder/internal/adapter/http"
	"github.com/couchcryptid/entrance-finder/internal/adapter/static"
	"github.com/couchcryptid/entrance-finder/internal/config"
	"github.com/couchcryptid/entrance-finder/internal/ingest"
	"github.com/couchcryptid/entrance-finder/internal/observability"
	"github.com/couchcryptid/entrance-finder/internal/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	agencies, err := config.LoadAgencies(cfg.AgenciesFile)
	if err != nil {
		logger.Error("failed to load agencies", "error", err)
		os.Exit(1)
	}

	dir := static.NewDirFetcher(cfg.DataDir)
	logger.Info("serving entrance data", "data_dir", dir.Root(), "agencies", len(agencies.All()))
	var fetcher ingest.Fetcher = dir
	if cfg.CacheTTL > 0 {
		fetcher = static.NewCachedFetcher(dir, cfg.CacheSize, cfg.CacheTTL, clockwork.NewRealClock(), metrics)
		logger.Info("resource cache enabled", "cache_size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	} else {
		logger.Info("resource cache disabled")
	}

	loader := ingest.New(fetcher, logger, metrics)
	svc := search.NewService(fetcher, loader, agencies, search.Options{
		CatalogFile: cfg.CatalogFile,
		ScoreCutoff: cfg.SearchScoreCutoff,
		Limit:       cfg.SearchLimit,
	}, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, os.DirFS(dir.Root()), metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := svc.CheckReadiness(ctx); err != nil {
		logger.Warn("catalog unavailable at startup", "data_dir", cfg.DataDir, "error", err)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
