package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/modelmart/modelmart-backend/api/responses"
	"github.com/modelmart/modelmart-backend/pkg/config"
	"github.com/modelmart/modelmart-backend/pkg/db"
	"github.com/modelmart/modelmart-backend/pkg/logger"
	"github.com/modelmart/modelmart-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady pings both stores and Redis; any failure reports not-ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, records, ledger db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		check := func(name string, ping func(context.Context) error) {
			if ping == nil {
				checks[name] = "skipped"
				return
			}
			if err := ping(ctx); err != nil {
				healthy = false
				checks[name] = "down"
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "readiness check failed", err)
				}
				return
			}
			checks[name] = "ok"
		}

		if records != nil {
			check("record_store", records.Ping)
		}
		if ledger != nil {
			check("ledger_store", ledger.Ping)
		}
		if cache != nil {
			check("redis", cache.Ping)
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": map[bool]string{true: "ready", false: "degraded"}[healthy],
			"checks": checks,
		})
	}
}
