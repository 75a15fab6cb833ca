package controllers

import (
	"net/http"

	"github.com/stitchsync/stitchsync-backend/api/responses"
	"github.com/stitchsync/stitchsync-backend/api/validators"
	"github.com/stitchsync/stitchsync-backend/internal/schedule"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

func JobCreate(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		var input schedule.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		job, err := svc.Create(ctx, shop, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, job)
	}
}

func JobUpdate(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service not configured"))
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
		var input schedule.UpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		job, err := svc.Update(ctx, shop, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

func JobDelete(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service not configured"))
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
		if err := svc.Delete(ctx, shop, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func JobGet(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service not configured"))
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

func JobList(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		jobs, err := svc.List(ctx, shop)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, jobs)
	}
}

func JobRun(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service not configured"))
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
		job, err := svc.Run(ctx, shop, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}
