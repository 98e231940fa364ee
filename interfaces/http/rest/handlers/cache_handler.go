package handlers

import (
	"net/http"

	"meetgraph/infrastructure/cache"
	"meetgraph/pkg/common"

	"go.uber.org/zap"
)

// CacheHandler exposes cache counters for operations dashboards
type CacheHandler struct {
	engine *cache.Engine
	logger *zap.Logger
}

// NewCacheHandler creates a new cache metrics handler
func NewCacheHandler(engine *cache.Engine, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{engine: engine, logger: logger}
}

// GetMetrics handles GET /api/v1/cache/metrics
func (h *CacheHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"connected": h.engine.Connected(),
		"counters":  h.engine.Metrics().Snapshot(),
	})
}

// ResetMetrics handles POST /api/v1/cache/metrics/reset
func (h *CacheHandler) ResetMetrics(w http.ResponseWriter, r *http.Request) {
	h.engine.Metrics().Reset()
	h.logger.Info("Cache metrics reset")
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
