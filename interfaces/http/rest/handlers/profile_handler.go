package handlers

import (
	"net/http"

	"meetgraph/application/services"
	"meetgraph/domain/user"
	"meetgraph/pkg/auth"
	"meetgraph/pkg/common"

	"go.uber.org/zap"
)

const maxProfileBodyBytes = 64 << 10

// ProfileHandler handles profile requests
type ProfileHandler struct {
	profiles *services.ProfileService
	logger   *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /api/v1/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var update user.ProfileUpdate
	if err := common.ParseJSONBody(r, &update, maxProfileBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	updated, err := h.profiles.UpdateProfile(r.Context(), userCtx.UserID, update)
	if err != nil {
		h.logger.Warn("Profile update rejected",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, updated)
}
