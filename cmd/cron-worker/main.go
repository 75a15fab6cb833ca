package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stitchsync/stitchsync-backend/internal/catalog"
	"github.com/stitchsync/stitchsync-backend/internal/cron"
	"github.com/stitchsync/stitchsync-backend/internal/orders"
	"github.com/stitchsync/stitchsync-backend/internal/schedule"
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

const lockKeyFormat = "ss:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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
	ordersRepo := orders.NewRepository(dbClient.DB())
	trackingRepo := tracking.NewRepository(dbClient.DB())
	scheduleRepo := schedule.NewRepository(dbClient.DB())

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

	trackingService, err := tracking.NewService(trackingRepo, supplierClient, ordersService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tracking service", err)
		os.Exit(1)
	}

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

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Lock:     lock,
		Schedule: scheduleService,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
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

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
