package controllers

import (
	"net/http"

	"github.com/stitchsync/stitchsync-backend/api/responses"
	"github.com/stitchsync/stitchsync-backend/api/validators"
	"github.com/stitchsync/stitchsync-backend/internal/orders"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

type approveOrderRequest struct {
	ShippingMethod string `json:"shipping_method"`
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		var status *enums.OrderJobStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseOrderJobStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}
		jobs, err := svc.List(ctx, shop, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, jobs)
	}
}

func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		id, err := validators.UUIDParam(r, "jobID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		job, err := svc.Get(ctx, shop, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

func OrderApprove(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		id, err := validators.UUIDParam(r, "jobID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var req approveOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		job, err := svc.Approve(ctx, shop, id, req.ShippingMethod)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

func OrderRetry(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		id, err := validators.UUIDParam(r, "jobID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		job, err := svc.Retry(ctx, shop, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}
