// Package handlers holds the HTTP handlers for the REST API. Handlers
// parse and validate the request, call one service method, and render the
// response envelope.
package handlers

import (
	"net/http"

	"meetgraph/application/services"
	"meetgraph/pkg/auth"
	"meetgraph/pkg/common"

	"go.uber.org/zap"
)

// FeedHandler handles feed requests
type FeedHandler struct {
	feed   *services.FeedService
	logger *zap.Logger
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feed *services.FeedService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, logger: logger}
}

// GetFeed handles GET /api/v1/feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)

	profiles, err := h.feed.GetFeed(r.Context(), userCtx.UserID, params.Page, params.Limit)
	if err != nil {
		h.logger.Error("Failed to build feed",
			zap.String("userID", userCtx.UserID),
			zap.Int("page", params.Page),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithCount(w, http.StatusOK, profiles, len(profiles))
}
