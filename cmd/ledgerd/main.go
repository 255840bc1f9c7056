package main

import (
	"context"
	"errors"
	"flag"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/defilend/ledgerd/internal/cache"
	"github.com/defilend/ledgerd/internal/config"
	"github.com/defilend/ledgerd/internal/database"
	"github.com/defilend/ledgerd/internal/ledger"
	"github.com/defilend/ledgerd/internal/logger"
	"github.com/defilend/ledgerd/internal/positions"
	"github.com/defilend/ledgerd/internal/server"
	"github.com/defilend/ledgerd/internal/solana"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// Parse command-line arguments
	envFile := flag.String("envFile", ".env", "Path to .env file")
	flag.Parse()

	// Load environment variables from the specified file
	if err := godotenv.Load(*envFile); err != nil {
		stdlog.Printf("No .env file found at %s, using environment variables", *envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	// Storage failure at startup is logged, not retried: the API keeps
	// serving and reports a clear failure status on every request that
	// needs the store.
	db, err := database.Connect(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database, continuing without storage")
		db = nil
	}
	store := ledger.NewGormStore(db)

	var cacheClient *cache.Client
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewClient(cfg.RedisURL, cfg.CacheTTL, log)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, response caching disabled")
			cacheClient = nil
		}
	}

	solanaClient, err := solana.NewClient(cfg.RPCURL)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", cfg.RPCURL).Msg("Solana RPC unreachable, connectivity diagnostics disabled")
		solanaClient = nil
	}

	ledgerService := ledger.NewService(store, log)
	positionService := positions.NewService(store, positions.StaticRates{}, log)

	handler := server.NewHandler(ledgerService, positionService, store, solanaClient, cacheClient, log)
	router := server.NewRouter(handler)

	apiServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("API server listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.MetricsPort).Msg("Metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server exited with error")
	}

	closeDatabase(db, log)
	if err := cacheClient.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close Redis connection")
	}

	log.Info().Msg("Shutdown complete")
}

func closeDatabase(db *gorm.DB, log zerolog.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close database connection")
	}
}
