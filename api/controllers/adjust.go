package controllers

import (
	"net/http"

	"github.com/stitchsync/stitchsync-backend/api/responses"
	"github.com/stitchsync/stitchsync-backend/api/validators"
	"github.com/stitchsync/stitchsync-backend/internal/pricing"
	"github.com/stitchsync/stitchsync-backend/pkg/config"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

func AdjustPreview(adj *pricing.Adjuster, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if adj == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price adjuster not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		var input pricing.AdjustInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		preview, err := adj.Preview(ctx, shop, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

func AdjustApply(adj *pricing.Adjuster, cfg config.ShopifyConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if adj == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "price adjuster not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		var input pricing.AdjustInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := adj.Apply(ctx, shop, cfg.AdminToken, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
