package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stitchsync/stitchsync-backend/pkg/config"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

func testShopifyConfig() config.ShopifyConfig {
	return config.ShopifyConfig{APIKey: "api-key", APISecret: "api-secret"}
}

func signedSessionToken(t *testing.T, secret, dest, audience string, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Dest: dest,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func shopEcho(t *testing.T, want string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shop, ok := ShopFromContext(r.Context())
		if !ok {
			t.Fatal("shop missing from context")
		}
		if shop != want {
			t.Fatalf("shop = %q, want %q", shop, want)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestShopContextAcceptsValidToken(t *testing.T) {
	cfg := testShopifyConfig()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	handler := ShopContext(cfg, logg)(shopEcho(t, "demo.myshopify.com"))

	token := signedSessionToken(t, cfg.APISecret, "https://demo.myshopify.com", cfg.APIKey, time.Now().Add(time.Minute))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestShopContextRejectsBadSignature(t *testing.T) {
	cfg := testShopifyConfig()
	handler := ShopContext(cfg, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	token := signedSessionToken(t, "wrong-secret", "https://demo.myshopify.com", cfg.APIKey, time.Now().Add(time.Minute))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestShopContextRejectsExpiredToken(t *testing.T) {
	cfg := testShopifyConfig()
	handler := ShopContext(cfg, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	token := signedSessionToken(t, cfg.APISecret, "https://demo.myshopify.com", cfg.APIKey, time.Now().Add(-time.Minute))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestShopContextRejectsMissingToken(t *testing.T) {
	handler := ShopContext(testShopifyConfig(), nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWebhookShopReadsHeader(t *testing.T) {
	handler := WebhookShop(nil)(shopEcho(t, "demo.myshopify.com"))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", nil)
	req.Header.Set("X-Shopify-Shop-Domain", "Demo.myshopify.com")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWebhookShopRequiresHeader(t *testing.T) {
	handler := WebhookShop(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/orders/create", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
