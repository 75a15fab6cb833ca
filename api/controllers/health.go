package controllers

import (
	"context"
	"net/http"

	"github.com/stitchsync/stitchsync-backend/api/responses"
	"github.com/stitchsync/stitchsync-backend/pkg/config"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

// ReadinessCheck probes one backing dependency.
type ReadinessCheck func(ctx context.Context) error

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StitchSync-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-StitchSync-Env", cfg.App.Env)
		for _, check := range checks {
			if err := check(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
