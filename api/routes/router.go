package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stitchsync/stitchsync-backend/api/controllers"
	"github.com/stitchsync/stitchsync-backend/api/middleware"
	"github.com/stitchsync/stitchsync-backend/internal/catalog"
	"github.com/stitchsync/stitchsync-backend/internal/intake"
	"github.com/stitchsync/stitchsync-backend/internal/orders"
	"github.com/stitchsync/stitchsync-backend/internal/pricing"
	"github.com/stitchsync/stitchsync-backend/internal/schedule"
	"github.com/stitchsync/stitchsync-backend/internal/settings"
	"github.com/stitchsync/stitchsync-backend/internal/stats"
	"github.com/stitchsync/stitchsync-backend/internal/tracking"
	"github.com/stitchsync/stitchsync-backend/pkg/config"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness []controllers.ReadinessCheck,
	pricingService pricing.Service,
	adjuster *pricing.Adjuster,
	catalogService catalog.Service,
	ordersService orders.Service,
	settingsService settings.Service,
	trackingService tracking.Service,
	scheduleService schedule.Service,
	statsService stats.Service,
	intakeService intake.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness...))
	})

	r.Route("/webhooks", func(r chi.Router) {
		r.Use(middleware.WebhookShop(logg))
		r.Post("/orders/create", controllers.OrderCreatedWebhook(intakeService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ShopContext(cfg.Shopify, logg))

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", controllers.RuleList(pricingService, logg))
			r.Post("/", controllers.RuleCreate(pricingService, logg))
			r.Get("/{ruleID}", controllers.RuleGet(pricingService, logg))
			r.Put("/{ruleID}", controllers.RuleUpdate(pricingService, logg))
			r.Delete("/{ruleID}", controllers.RuleDelete(pricingService, logg))
		})
		r.Post("/quote", controllers.PriceQuote(pricingService, logg))

		r.Route("/prices", func(r chi.Router) {
			r.Post("/preview", controllers.AdjustPreview(adjuster, logg))
			r.Post("/apply", controllers.AdjustApply(adjuster, cfg.Shopify, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Post("/map", controllers.ProductMap(catalogService, logg))
			r.Delete("/{mappingID}", controllers.ProductUnmap(catalogService, logg))
			r.Post("/import", controllers.ProductImport(catalogService, cfg.Shopify, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Get("/{jobID}", controllers.OrderGet(ordersService, logg))
			r.Post("/{jobID}/approve", controllers.OrderApprove(ordersService, logg))
			r.Post("/{jobID}/retry", controllers.OrderRetry(ordersService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsGet(settingsService, logg))
			r.Put("/", controllers.SettingsUpdate(settingsService, logg))
		})

		r.Route("/tracking", func(r chi.Router) {
			r.Post("/", controllers.TrackingCreate(trackingService, logg))
			r.Post("/refresh", controllers.TrackingRefreshAll(trackingService, logg))
			r.Post("/{trackingID}/refresh", controllers.TrackingRefresh(trackingService, logg))
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", controllers.JobList(scheduleService, logg))
			r.Post("/", controllers.JobCreate(scheduleService, logg))
			r.Get("/{jobID}", controllers.JobGet(scheduleService, logg))
			r.Put("/{jobID}", controllers.JobUpdate(scheduleService, logg))
			r.Delete("/{jobID}", controllers.JobDelete(scheduleService, logg))
			r.Post("/{jobID}/run", controllers.JobRun(scheduleService, logg))
		})

		r.Get("/stats", controllers.StatsSummary(statsService, logg))
	})

	return r
}
