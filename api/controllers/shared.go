package controllers

import (
	"context"
	"net/http"

	"github.com/stitchsync/stitchsync-backend/api/middleware"
	"github.com/stitchsync/stitchsync-backend/api/responses"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

// requireShop pulls the tenant shop off the context, writing the error
// response itself when the middleware never ran.
func requireShop(ctx context.Context, logg *logger.Logger, w http.ResponseWriter) (string, bool) {
	shop, ok := middleware.ShopFromContext(ctx)
	if !ok {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
		return "", false
	}
	return shop, true
}
