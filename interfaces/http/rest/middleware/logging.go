package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"meetgraph/pkg/observability"
)

// Logger logs one structured line per request and, when a metrics
// publisher is supplied, records the request latency against the matched
// route pattern. metrics may be nil.
func Logger(logger *zap.Logger, metrics *observability.MetricsPublisher) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", duration),
				zap.String("requestID", middleware.GetReqID(r.Context())),
				zap.String("remoteAddr", r.RemoteAddr),
			)

			if metrics != nil {
				// Route pattern is only known after routing; publish off
				// the request path with a context that survives it.
				route := chi.RouteContext(r.Context()).RoutePattern()
				go metrics.RecordRequestLatency(context.WithoutCancel(r.Context()), route, duration)
			}
		})
	}
}
