package middleware

import (
	"net/http"

	"meetgraph/pkg/auth"
	"meetgraph/pkg/common"

	"go.uber.org/zap"
)

// Throttle rate-limits requests per authenticated user. It must run after
// Authenticator; unauthenticated requests fall back to the remote address.
func Throttle(limiter auth.RateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if userCtx, err := auth.GetUserFromContext(r.Context()); err == nil {
				key = userCtx.UserID
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter error, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
