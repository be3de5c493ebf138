package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/SachinNic1502/lapkart-backend/api/responses"
	"github.com/SachinNic1502/lapkart-backend/pkg/config"
	"github.com/SachinNic1502/lapkart-backend/pkg/db"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
	"github.com/SachinNic1502/lapkart-backend/pkg/redis"
)

const healthCheckTimeout = 2 * time.Second

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady reports readiness by pinging the backing stores.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
			checks["database"] = "ok"
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
