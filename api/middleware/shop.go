package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stitchsync/stitchsync-backend/api/responses"
	"github.com/stitchsync/stitchsync-backend/pkg/config"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

type contextKey string

const shopContextKey contextKey = "shop"

const shopDomainHeader = "X-Shopify-Shop-Domain"

// sessionClaims are the embedded-app session token claims this layer reads.
// The dest claim carries the shop the token was minted for.
type sessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// ShopFromContext returns the authenticated shop domain, if any.
func ShopFromContext(ctx context.Context) (string, bool) {
	shop, ok := ctx.Value(shopContextKey).(string)
	return shop, ok && shop != ""
}

// WithShop returns a context carrying the shop domain. Exposed for tests.
func WithShop(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopContextKey, shop)
}

// ShopContext verifies the embedded-app session token and derives the tenant
// shop from it. Requests without a valid token never reach the admin surface.
func ShopContext(cfg config.ShopifyConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := bearerToken(r)
			if raw == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token"))
				return
			}

			claims := &sessionClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unexpected signing method")
				}
				return []byte(cfg.APISecret), nil
			}, jwt.WithAudience(cfg.APIKey))
			if err != nil || !token.Valid {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
				return
			}

			shop := shopFromDest(claims.Dest)
			if shop == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session token has no shop"))
				return
			}

			ctx = WithShop(ctx, shop)
			if logg != nil {
				ctx = logg.WithShop(ctx, shop)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WebhookShop derives the tenant from the webhook's shop-domain header.
// Signature verification happens upstream of this service.
func WebhookShop(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			shop := strings.ToLower(strings.TrimSpace(r.Header.Get(shopDomainHeader)))
			if shop == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing shop domain header"))
				return
			}

			ctx = WithShop(ctx, shop)
			if logg != nil {
				ctx = logg.WithShop(ctx, shop)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// shopFromDest extracts the shop host from the token's dest claim, which is
// the shop's admin URL.
func shopFromDest(dest string) string {
	if dest == "" {
		return ""
	}
	parsed, err := url.Parse(dest)
	if err != nil {
		return ""
	}
	host := parsed.Host
	if host == "" {
		host = parsed.Path
	}
	return strings.ToLower(strings.TrimSuffix(host, "/"))
}
