package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadinessCheck reports 200 only when the database answers. The key set
// state is informational since a cold cache is filled on first use.
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := "ready"

		switch {
		case deps.DB == nil:
			status = "not_ready"
			checks["database"] = "not_initialized"
		default:
			if err := deps.DB.HealthCheck(ctx); err != nil {
				status = "not_ready"
				checks["database"] = "unhealthy"
				deps.Logger.Error("database health check failed", zap.Error(err))
			} else {
				checks["database"] = "healthy"
			}
		}

		switch {
		case deps.KeySource == nil:
			checks["jwks"] = "not_configured"
		case deps.KeySource.Ready():
			checks["jwks"] = "cached"
		default:
			checks["jwks"] = "cold"
		}

		code := http.StatusOK
		if status != "ready" {
			code = http.StatusServiceUnavailable
		}
		_ = utils.WriteJSON(w, code, map[string]interface{}{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks":    checks,
		})
	}
}
