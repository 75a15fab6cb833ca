package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/stitchsync/stitchsync-backend/api/responses"
	"github.com/stitchsync/stitchsync-backend/internal/intake"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

// OrderCreatedWebhook ingests Shopify orders/create payloads. Shopify retries
// on non-2xx, so intake failures other than bad payloads are reported as
// errors to trigger redelivery.
func OrderCreatedWebhook(svc intake.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intake service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		// Shopify payloads carry far more fields than we model, so this
		// decode stays lenient about unknown keys.
		var order intake.WebhookOrder
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook payload"))
			return
		}
		io.Copy(io.Discard, r.Body)
		result, err := svc.HandleOrderCreated(ctx, shop, order)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
