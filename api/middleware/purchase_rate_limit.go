package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelmart/modelmart-backend/api/responses"
	"github.com/modelmart/modelmart-backend/pkg/config"
	pkgerrors "github.com/modelmart/modelmart-backend/pkg/errors"
	"github.com/modelmart/modelmart-backend/pkg/logger"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// PurchaseRateLimit caps purchase attempts per buyer over a fixed window.
// The limiter fails open: a Redis outage must not block purchases.
func PurchaseRateLimit(cfg config.PurchaseRateLimitConfig, limiter rateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || cfg.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			userID := UserIDFromContext(r.Context())
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			scope := fmt.Sprintf("purchase:%s", userID)
			allowed, count, err := limiter.FixedWindowAllow(r.Context(), scope, int64(cfg.Limit), cfg.Window)
			if err != nil {
				if logg != nil {
					logg.Error(r.Context(), "purchase rate limit check failed", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{"count": count, "limit": cfg.Limit})
					logg.Warn(ctx, "purchase rate limit exceeded")
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many purchase attempts"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
