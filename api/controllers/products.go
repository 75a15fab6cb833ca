package controllers

import (
	"net/http"

	"github.com/stitchsync/stitchsync-backend/api/responses"
	"github.com/stitchsync/stitchsync-backend/api/validators"
	"github.com/stitchsync/stitchsync-backend/internal/catalog"
	"github.com/stitchsync/stitchsync-backend/pkg/config"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		mappings, err := svc.List(ctx, shop)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, mappings)
	}
}

func ProductMap(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		var input catalog.MapProductInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		mapping, err := svc.MapProduct(ctx, shop, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, mapping)
	}
}

func ProductUnmap(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		id, err := validators.UUIDParam(r, "mappingID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Unmap(ctx, shop, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unmapped"})
	}
}

func ProductImport(svc catalog.Service, cfg config.ShopifyConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		var input catalog.ImportInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := svc.ImportStyles(ctx, shop, cfg.AdminToken, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
