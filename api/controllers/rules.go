package controllers

import (
	"net/http"

	"github.com/stitchsync/stitchsync-backend/api/responses"
	"github.com/stitchsync/stitchsync-backend/api/validators"
	"github.com/stitchsync/stitchsync-backend/internal/pricing"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

func RuleCreate(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		var input pricing.CreateRuleInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rule, err := svc.CreateRule(ctx, shop, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rule)
	}
}

func RuleUpdate(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		id, err := validators.UUIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input pricing.UpdateRuleInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rule, err := svc.UpdateRule(ctx, shop, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rule)
	}
}

func RuleDelete(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		id, err := validators.UUIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.DeleteRule(ctx, shop, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func RuleGet(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		id, err := validators.UUIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rule, err := svc.GetRule(ctx, shop, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rule)
	}
}

func RuleList(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		rules, err := svc.ListRules(ctx, shop)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rules)
	}
}

func PriceQuote(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service not configured"))
			return
		}
		shop, ok := requireShop(ctx, logg, w)
		if !ok {
			return
		}
		var input pricing.QuoteInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		quote, err := svc.Quote(ctx, shop, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
