package controllers

import (
	"net/http"

	"github.com/stocktrackhq/stocktrack-backend/api/responses"
	"github.com/stocktrackhq/stocktrack-backend/pkg/config"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db"
	pkgerrors "github.com/stocktrackhq/stocktrack-backend/pkg/errors"
	"github.com/stocktrackhq/stocktrack-backend/pkg/logger"
	"github.com/stocktrackhq/stocktrack-backend/pkg/redis"
)

const envHeader = "X-StockTrack-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the datasources the API depends on. Redis is optional
// and only checked when configured.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisC *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not wired"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		if redisC != nil {
			if err := redisC.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
