package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/stitchsync/stitchsync-backend/api/controllers"
	"github.com/stitchsync/stitchsync-backend/internal/catalog"
	"github.com/stitchsync/stitchsync-backend/internal/intake"
	"github.com/stitchsync/stitchsync-backend/internal/pricing"
	"github.com/stitchsync/stitchsync-backend/internal/schedule"
	"github.com/stitchsync/stitchsync-backend/internal/settings"
	"github.com/stitchsync/stitchsync-backend/internal/stats"
	"github.com/stitchsync/stitchsync-backend/internal/tracking"
	"github.com/stitchsync/stitchsync-backend/pkg/config"
	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

type stubPricingService struct{}

func (stubPricingService) CreateRule(context.Context, string, pricing.CreateRuleInput) (*models.VolumePriceRule, error) {
	return &models.VolumePriceRule{}, nil
}

func (stubPricingService) UpdateRule(context.Context, string, uuid.UUID, pricing.UpdateRuleInput) (*models.VolumePriceRule, error) {
	return &models.VolumePriceRule{}, nil
}

func (stubPricingService) DeleteRule(context.Context, string, uuid.UUID) error {
	return nil
}

func (stubPricingService) GetRule(context.Context, string, uuid.UUID) (*models.VolumePriceRule, error) {
	return &models.VolumePriceRule{}, nil
}

func (stubPricingService) ListRules(context.Context, string) ([]models.VolumePriceRule, error) {
	return nil, nil
}

func (stubPricingService) Quote(context.Context, string, pricing.QuoteInput) (*pricing.QuoteResult, error) {
	return &pricing.QuoteResult{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) List(context.Context, string) ([]models.ProductMap, error) {
	return nil, nil
}

func (stubCatalogService) MapProduct(context.Context, string, catalog.MapProductInput) (*models.ProductMap, error) {
	return &models.ProductMap{}, nil
}

func (stubCatalogService) Unmap(context.Context, string, uuid.UUID) error {
	return nil
}

func (stubCatalogService) ImportStyles(context.Context, string, string, catalog.ImportInput) (*catalog.ImportResult, error) {
	return &catalog.ImportResult{}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Get(context.Context, string, uuid.UUID) (*models.OrderJob, error) {
	return &models.OrderJob{}, nil
}

func (stubOrdersService) List(context.Context, string, *enums.OrderJobStatus) ([]models.OrderJob, error) {
	return nil, nil
}

func (stubOrdersService) Approve(context.Context, string, uuid.UUID, string) (*models.OrderJob, error) {
	return &models.OrderJob{}, nil
}

func (stubOrdersService) Retry(context.Context, string, uuid.UUID) (*models.OrderJob, error) {
	return &models.OrderJob{}, nil
}

func (stubOrdersService) MarkShipped(context.Context, string, uuid.UUID) error {
	return nil
}

func (stubOrdersService) MarkDelivered(context.Context, string, uuid.UUID) error {
	return nil
}

func (stubOrdersService) MarkError(context.Context, string, uuid.UUID, string) error {
	return nil
}

type stubSettingsService struct{}

func (stubSettingsService) Get(context.Context, string) (*models.AutoOrderSettings, error) {
	return &models.AutoOrderSettings{}, nil
}

func (stubSettingsService) Update(context.Context, string, settings.UpdateInput) (*models.AutoOrderSettings, error) {
	return &models.AutoOrderSettings{}, nil
}

type stubTrackingService struct{}

func (stubTrackingService) Create(context.Context, string, tracking.CreateInput) (*models.ShipmentTracking, error) {
	return &models.ShipmentTracking{}, nil
}

func (stubTrackingService) Refresh(context.Context, string, uuid.UUID) (*models.ShipmentTracking, error) {
	return &models.ShipmentTracking{}, nil
}

func (stubTrackingService) RefreshAll(context.Context, string) (*tracking.RefreshSummary, error) {
	return &tracking.RefreshSummary{}, nil
}

type stubScheduleService struct{}

func (stubScheduleService) Create(context.Context, string, schedule.CreateInput) (*models.ScheduledJob, error) {
	return &models.ScheduledJob{}, nil
}

func (stubScheduleService) Update(context.Context, string, uuid.UUID, schedule.UpdateInput) (*models.ScheduledJob, error) {
	return &models.ScheduledJob{}, nil
}

func (stubScheduleService) Delete(context.Context, string, uuid.UUID) error {
	return nil
}

func (stubScheduleService) Get(context.Context, string, uuid.UUID) (*models.ScheduledJob, error) {
	return &models.ScheduledJob{}, nil
}

func (stubScheduleService) List(context.Context, string) ([]models.ScheduledJob, error) {
	return nil, nil
}

func (stubScheduleService) Run(context.Context, string, uuid.UUID) (*models.ScheduledJob, error) {
	return &models.ScheduledJob{}, nil
}

func (stubScheduleService) RunDue(context.Context) (*schedule.DispatchSummary, error) {
	return &schedule.DispatchSummary{}, nil
}

type stubStatsService struct{}

func (stubStatsService) RecordOrder(context.Context, string, int, int64) error {
	return nil
}

func (stubStatsService) AddImported(context.Context, string, int) error {
	return nil
}

func (stubStatsService) Summarize(context.Context, string, time.Time, time.Time) (*stats.Summary, error) {
	return &stats.Summary{}, nil
}

type stubIntakeService struct {
	lastShop string
}

func (s *stubIntakeService) HandleOrderCreated(_ context.Context, shop string, _ intake.WebhookOrder) (*intake.Result, error) {
	s.lastShop = shop
	return &intake.Result{Relevant: false}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		Shopify: config.ShopifyConfig{
			APIKey:    "test-api-key",
			APISecret: "test-api-secret",
		},
	}
}

func newTestRouter(cfg *config.Config, intakeSvc intake.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		[]controllers.ReadinessCheck{},
		stubPricingService{},
		nil, // adjuster, routes under /prices respond 500 when unset
		stubCatalogService{},
		stubOrdersService{},
		stubSettingsService{},
		stubTrackingService{},
		stubScheduleService{},
		stubStatsService{},
		intakeSvc,
	)
}

func sessionToken(t *testing.T, cfg *config.Config, shop string) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"dest": "https://" + shop,
		"aud":  cfg.Shopify.APIKey,
		"iss":  "https://" + shop + "/admin",
		"exp":  now.Add(time.Minute).Unix(),
		"nbf":  now.Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Shopify.APISecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), &stubIntakeService{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(testConfig(), &stubIntakeService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminRoutesAcceptSessionToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubIntakeService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, cfg, "demo.myshopify.com"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestWebhookRequiresShopHeader(t *testing.T) {
	router := newTestRouter(testConfig(), &stubIntakeService{})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", strings.NewReader(`{"id":1}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without shop header got %d", resp.Code)
	}
}

func TestWebhookPassesShopToIntake(t *testing.T) {
	intakeSvc := &stubIntakeService{}
	router := newTestRouter(testConfig(), intakeSvc)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", strings.NewReader(`{"id":1,"order_number":1001,"line_items":[]}`))
	req.Header.Set("X-Shopify-Shop-Domain", "Demo.myshopify.com")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if intakeSvc.lastShop != "demo.myshopify.com" {
		t.Fatalf("expected lowercased shop, got %q", intakeSvc.lastShop)
	}
}

func TestStatsRejectsBadDate(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubIntakeService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats?from=not-a-date", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, cfg, "demo.myshopify.com"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
