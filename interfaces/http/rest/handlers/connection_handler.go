package handlers

import (
	"net/http"

	"meetgraph/application/services"
	"meetgraph/domain/connection"
	"meetgraph/pkg/auth"
	"meetgraph/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ConnectionHandler handles connection request and listing endpoints
type ConnectionHandler struct {
	connections *services.ConnectionService
	logger      *zap.Logger
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connections *services.ConnectionService, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{connections: connections, logger: logger}
}

// SendRequest handles POST /api/v1/requests/{status}/{toUserID}
func (h *ConnectionHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	status := connection.Status(chi.URLParam(r, "status"))
	toUserID := chi.URLParam(r, "toUserID")

	conn, err := h.connections.SendRequest(r.Context(), userCtx.UserID, toUserID, status)
	if err != nil {
		h.logger.Info("Connection request rejected",
			zap.String("fromUserID", userCtx.UserID),
			zap.String("toUserID", toUserID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, conn)
}

// ReviewRequest handles POST /api/v1/requests/{requestID}/review/{status}
func (h *ConnectionHandler) ReviewRequest(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	requestID := chi.URLParam(r, "requestID")
	status := connection.Status(chi.URLParam(r, "status"))

	conn, err := h.connections.ReviewRequest(r.Context(), userCtx.UserID, requestID, status)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, conn)
}

// GetReceivedRequests handles GET /api/v1/requests/received
func (h *ConnectionHandler) GetReceivedRequests(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	received, err := h.connections.GetReceivedRequests(r.Context(), userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithCount(w, http.StatusOK, received, len(received))
}

// GetConnections handles GET /api/v1/connections
func (h *ConnectionHandler) GetConnections(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	conns, err := h.connections.GetConnections(r.Context(), userCtx.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithCount(w, http.StatusOK, conns, len(conns))
}
