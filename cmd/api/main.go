package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/modelmart/modelmart-backend/api/routes"
	"github.com/modelmart/modelmart-backend/internal/listings"
	"github.com/modelmart/modelmart-backend/internal/purchases"
	pkgauth "github.com/modelmart/modelmart-backend/pkg/auth"
	"github.com/modelmart/modelmart-backend/pkg/config"
	"github.com/modelmart/modelmart-backend/pkg/db"
	"github.com/modelmart/modelmart-backend/pkg/logger"
	"github.com/modelmart/modelmart-backend/pkg/metrics"
	"github.com/modelmart/modelmart-backend/pkg/migrate"
	"github.com/modelmart/modelmart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	recordClient, err := db.New(context.Background(), "records", cfg.RecordDB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap record store", err)
		os.Exit(1)
	}
	defer func() {
		if err := recordClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing record store", err)
		}
	}()

	ledgerClient, err := db.New(context.Background(), "ledger", cfg.LedgerDB.AsDBConfig(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap ledger store", err)
		os.Exit(1)
	}
	defer func() {
		if err := ledgerClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing ledger store", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, recordClient, ledgerClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	verifier, err := pkgauth.NewJWTVerifier(cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity verifier", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	purchaseMetrics := metrics.NewPurchaseMetrics(registry)

	listingService, err := listings.NewService(listings.NewRepository(recordClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create listing service", err)
		os.Exit(1)
	}

	purchaseService, err := purchases.NewService(
		purchases.NewRepository(ledgerClient.DB()),
		listings.NewRepository(recordClient.DB()),
		purchaseMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			recordClient,
			ledgerClient,
			redisClient,
			verifier,
			listingService,
			purchaseService,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
