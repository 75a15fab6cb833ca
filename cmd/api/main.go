package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stitchsync/stitchsync-backend/api/controllers"
	"github.com/stitchsync/stitchsync-backend/api/routes"
	"github.com/stitchsync/stitchsync-backend/internal/catalog"
	"github.com/stitchsync/stitchsync-backend/internal/cron"
	"github.com/stitchsync/stitchsync-backend/internal/intake"
	"github.com/stitchsync/stitchsync-backend/internal/orders"
	"github.com/stitchsync/stitchsync-backend/internal/pricing"
	"github.com/stitchsync/stitchsync-backend/internal/schedule"
	"github.com/stitchsync/stitchsync-backend/internal/settings"
	"github.com/stitchsync/stitchsync-backend/internal/stats"
	"github.com/stitchsync/stitchsync-backend/internal/tracking"
	"github.com/stitchsync/stitchsync-backend/pkg/config"
	"github.com/stitchsync/stitchsync-backend/pkg/db"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
	"github.com/stitchsync/stitchsync-backend/pkg/metrics"
	"github.com/stitchsync/stitchsync-backend/pkg/migrate"
	"github.com/stitchsync/stitchsync-backend/pkg/redis"
	"github.com/stitchsync/stitchsync-backend/pkg/shopify"
	"github.com/stitchsync/stitchsync-backend/pkg/supplier"
)

const shutdownGrace = 15 * time.Second

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

	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	shopifyClient := shopify.NewClient(cfg.Shopify, logg)
	supplierClient := supplier.NewClient(cfg.Supplier, logg)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	pricingRepo := pricing.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	settingsRepo := settings.NewRepository(dbClient.DB())
	trackingRepo := tracking.NewRepository(dbClient.DB())
	scheduleRepo := schedule.NewRepository(dbClient.DB())
	statsRepo := stats.NewRepository(dbClient.DB())

	statsService, err := stats.NewService(statsRepo, time.Now)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, supplierClient, shopifyClient, statsService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(pricingRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	priceWrites := metrics.NewPriceWriteMetrics(prometheus.DefaultRegisterer)
	adjuster, err := pricing.NewAdjuster(catalogRepo, shopifyClient, priceWrites, logg, cfg.Cron.PriceWriteLimit)
	if err != nil {
		logg.Error(context.Background(), "failed to create price adjuster", err)
		os.Exit(1)
	}

	gateway, err := orders.NewSupplierGateway(supplierClient, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier gateway", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, gateway, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settingsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	trackingService, err := tracking.NewService(trackingRepo, supplierClient, ordersService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tracking service", err)
		os.Exit(1)
	}

	intakeService, err := intake.NewService(catalogRepo, ordersRepo, ordersService, settingsService, statsService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create intake service", err)
		os.Exit(1)
	}

	// Manual runs from the admin surface execute through the same job
	// registry the cron worker uses.
	registry, err := buildRegistry(cfg, logg, catalogRepo, ordersRepo, supplierClient, shopifyClient, trackingService)
	if err != nil {
		logg.Error(context.Background(), "failed to build job registry", err)
		os.Exit(1)
	}

	scheduleService, err := schedule.NewService(scheduleRepo, registry, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create schedule service", err)
		os.Exit(1)
	}

	readiness := []controllers.ReadinessCheck{dbClient.Ping, redisClient.Ping}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			readiness,
			pricingService,
			adjuster,
			catalogService,
			ordersService,
			settingsService,
			trackingService,
			scheduleService,
			statsService,
			intakeService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down api server", err)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}

func buildRegistry(
	cfg *config.Config,
	logg *logger.Logger,
	catalogRepo catalog.Repository,
	ordersRepo orders.Repository,
	supplierClient *supplier.Client,
	shopifyClient *shopify.Client,
	trackingService tracking.Service,
) (*cron.Registry, error) {
	catalogSync, err := cron.NewCatalogSyncJob(catalogRepo, supplierClient, logg)
	if err != nil {
		return nil, err
	}
	inventorySync, err := cron.NewInventorySyncJob(catalogRepo, supplierClient, logg)
	if err != nil {
		return nil, err
	}
	priceUpdate, err := cron.NewPriceUpdateJob(catalogRepo, supplierClient, shopifyClient, cron.StaticTokenSource(cfg.Shopify.AdminToken), logg)
	if err != nil {
		return nil, err
	}
	orderStatus, err := cron.NewOrderStatusJob(ordersRepo, supplierClient, trackingService, logg)
	if err != nil {
		return nil, err
	}
	cleanup, err := cron.NewCleanupJob(ordersRepo, 0, logg)
	if err != nil {
		return nil, err
	}

	cronMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	return cron.NewRegistry(cronMetrics, catalogSync, inventorySync, priceUpdate, orderStatus, cleanup), nil
}
